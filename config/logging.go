package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// LoggingConfig selects the minimum level written by every component logger.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error. Empty keeps the
	// LOG_LEVEL environment setting.
	Level string `json:"level"`
}

// Validate checks the level name.
func (c LoggingConfig) Validate() error {
	if c.Level == "" {
		return nil
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Level)); err != nil {
		return fmt.Errorf("logging: unknown level %q", c.Level)
	}
	return nil
}

// Apply sets the zerolog global level.
func (c LoggingConfig) Apply() {
	if c.Level == "" {
		return
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(c.Level)); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}
