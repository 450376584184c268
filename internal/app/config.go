package app

import "errors"

// Config holds the CLI-level settings for one App instance.
type Config struct {
	ConfigPath string // pipeline .hcl file

	OutputDir string // optional override of the configured output_dir
	LogFormat string
	LogLevel  string
	Workers   int
}

// NewConfig validates and returns the CLI-level configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
