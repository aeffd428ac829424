package config

import (
	"fmt"
	"strconv"
	"time"
)

// Browser engines
const (
	EnginePlaywright = "playwright"
	EngineChromedp   = "chromedp"
	EngineHTTP       = "http"
)

// DefaultStorageState is where the captured session snapshot lives
const DefaultStorageState = "playwright/.auth/user.json"

// BrowserConfig selects and tunes the browser engine
type BrowserConfig struct {
	Engine        string
	Headless      bool
	ActionTimeout time.Duration
	StorageState  string
	// StateMaxAge flags snapshots older than this as stale. Zero disables the check.
	StateMaxAge time.Duration
	// ChromePath is the Chrome binary for the chromedp engine; empty means discover it.
	ChromePath string
}

// LoadBrowserConfig loads browser configuration from environment variables
func LoadBrowserConfig(getenv func(string) string) (BrowserConfig, error) {
	config := BrowserConfig{
		Engine:        getenv("BROWSER_ENGINE"),
		Headless:      true,
		ActionTimeout: 5 * time.Second,
		StorageState:  getenv("STORAGE_STATE"),
		ChromePath:    getenv("CHROME_PATH"),
	}

	switch config.Engine {
	case "":
		config.Engine = EnginePlaywright
	case EnginePlaywright, EngineChromedp, EngineHTTP:
	default:
		return config, fmt.Errorf("BROWSER_ENGINE must be one of %s, %s, %s; got %q",
			EnginePlaywright, EngineChromedp, EngineHTTP, config.Engine)
	}

	if v := getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return config, fmt.Errorf("HEADLESS: %w", err)
		}
		config.Headless = headless
	}

	if v := getenv("ACTION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return config, fmt.Errorf("ACTION_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return config, fmt.Errorf("ACTION_TIMEOUT must be positive, got %s", d)
		}
		config.ActionTimeout = d
	}

	if config.StorageState == "" {
		config.StorageState = DefaultStorageState
	}

	if v := getenv("STORAGE_STATE_MAX_AGE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return config, fmt.Errorf("STORAGE_STATE_MAX_AGE: %w", err)
		}
		config.StateMaxAge = d
	}

	return config, nil
}
