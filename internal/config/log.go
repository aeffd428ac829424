package config

import "fmt"

// LogConfig controls the logrus logger
type LogConfig struct {
	Level  string
	Format string
	// File, when set, receives the log through a rotating writer instead of stderr.
	File string
}

// LoadLogConfig loads logging configuration from environment variables
func LoadLogConfig(getenv func(string) string) (LogConfig, error) {
	config := LogConfig{
		Level:  getenv("LOG_LEVEL"),
		Format: getenv("LOG_FORMAT"),
		File:   getenv("LOG_FILE"),
	}
	if config.Level == "" {
		config.Level = "info"
	}
	switch config.Format {
	case "":
		config.Format = "text"
	case "text", "json":
	default:
		return config, fmt.Errorf("LOG_FORMAT must be text or json, got %q", config.Format)
	}
	return config, nil
}
