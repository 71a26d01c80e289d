// Package cmd implements the ifcompat subcommands.
package cmd

import (
	"fmt"
	"os"

	"grimm.is/ifcompat/internal/brand"
	"grimm.is/ifcompat/internal/config"
	"grimm.is/ifcompat/internal/i18n"
	"grimm.is/ifcompat/internal/logging"
)

// Printer is the localized printer for user-facing output.
var Printer = i18n.NewCLIPrinter()

func defaultConfigPath() string {
	return brand.GetConfigPath()
}

// loadConfig reads the configuration file, falling back to the defaults when
// the default file does not exist. An explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.LoadOrDefault(defaultConfigPath())
	} else {
		cfg, err = config.LoadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}
	if errs := cfg.Validate(); errs.HasErrors() {
		return nil, fmt.Errorf("configuration invalid: %w", errs)
	}
	return cfg, nil
}

// setupLogging installs the default logger described by cfg.
func setupLogging(cfg *config.Config) *logging.Logger {
	level, _ := logging.ParseLevel(cfg.Log.Level)
	logger := logging.New(logging.Config{
		Level:  level,
		Output: os.Stderr,
		JSON:   cfg.Log.JSON,
	})
	logging.SetDefault(logger)
	return logger
}
