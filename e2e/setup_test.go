package e2e

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/themizzi/shopcheck/internal/browser"
	internalcli "github.com/themizzi/shopcheck/internal/cli"
	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/logging"
	"github.com/themizzi/shopcheck/internal/shoptest"
)

// engines holds every real browser that launched, by engine name. Engines
// that failed to start keep their error so their tests can skip.
var (
	engines    = map[string]browser.Engine{}
	launchErrs = map[string]error{}
)

// TestMain starts Chromium through both drivers (browsers installed via:
// go run github.com/playwright-community/playwright-go/cmd/playwright@latest install chromium)
func TestMain(m *testing.M) {
	for _, name := range []string{config.EnginePlaywright, config.EngineChromedp} {
		engine, err := internalcli.NewEngine(config.BrowserConfig{
			Engine:     name,
			Headless:   true,
			ChromePath: os.Getenv("CHROME_PATH"),
		}, logging.Discard())
		if err != nil {
			launchErrs[name] = err
			continue
		}
		engines[name] = engine
	}

	code := m.Run()

	for name, engine := range engines {
		if err := engine.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close %s: %v\n", name, err)
		}
	}
	os.Exit(code)
}

// forEachEngine runs fn once per browser driver, skipping drivers that did not launch
func forEachEngine(t *testing.T, fn func(t *testing.T, engine browser.Engine)) {
	for _, name := range []string{config.EnginePlaywright, config.EngineChromedp} {
		t.Run(name, func(t *testing.T) {
			engine, ok := engines[name]
			if !ok {
				t.Skipf("%s is not available: %v", name, launchErrs[name])
			}
			fn(t, engine)
		})
	}
}

// target returns the shop to drive. E2E_URL points the suite at a running
// server (shopcheck serve); otherwise a shop is started in-process.
func target(t *testing.T) config.TargetConfig {
	t.Helper()
	base := os.Getenv("E2E_URL")
	if base == "" {
		base = shoptest.NewServer(t).URL
	}
	return config.TargetConfig{BaseURL: base, Username: "standard_user", Password: "secret_sauce"}
}

// browserConfig keeps the session snapshot in the test's temp dir
func browserConfig(t *testing.T, engine string) config.BrowserConfig {
	return config.BrowserConfig{
		Engine:        engine,
		Headless:      true,
		ActionTimeout: 10 * time.Second,
		StorageState:  t.TempDir() + "/user.json",
	}
}
