package config

import (
	"fmt"
	"strings"
	"time"

	"grimm.is/ifcompat/internal/logging"
	"grimm.is/ifcompat/internal/validation"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validate validates the entire configuration.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors
	add := func(field string, err error) {
		if err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error()})
		}
	}

	add("sysconfig_dir", validation.ValidateDirectory(c.SysconfigDir))
	add("state_dir", validation.ValidateDirectory(c.StateDir))

	if c.Netns != "" && (strings.ContainsAny(c.Netns, "/\x00") || c.Netns == "." || c.Netns == "..") {
		errs = append(errs, ValidationError{Field: "netns", Message: fmt.Sprintf("invalid namespace name %q", c.Netns)})
	}

	switch c.Format {
	case FormatHCL, FormatJSON, FormatYAML:
	default:
		errs = append(errs, ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q (want hcl, json or yaml)", c.Format)})
	}

	if c.Log != nil {
		_, err := logging.ParseLevel(c.Log.Level)
		add("log.level", err)
	}

	if c.Metrics != nil && c.Metrics.Enabled {
		add("metrics.listen", validation.ValidateListenAddress(c.Metrics.Listen))
		if d, err := time.ParseDuration(c.Metrics.Interval); err != nil {
			add("metrics.interval", err)
		} else if d <= 0 {
			errs = append(errs, ValidationError{Field: "metrics.interval", Message: "must be positive"})
		}
	}

	return errs
}
