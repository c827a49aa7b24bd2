package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/sigtalk/internal/app"
	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/pkg/log"
)

// Config holds CLI configuration for sigtalk.
type Config struct {
	SocketDir string
	LogFile   string

	Capacity  int
	QueueSize int

	PollInterval time.Duration
	MaxPolls     int
	SettleDelay  time.Duration
	AckDelay     time.Duration

	LogLevel    string
	ShowHistory bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	lib := app.DefaultConfig()
	return Config{
		SocketDir:    lib.SocketDir,
		LogFile:      lib.LogFile,
		Capacity:     lib.Capacity,
		QueueSize:    lib.QueueSize,
		PollInterval: lib.PollInterval,
		MaxPolls:     lib.MaxPolls,
		SettleDelay:  lib.SettleDelay,
		AckDelay:     lib.AckDelay,
		LogLevel:     "info",
		ShowHistory:  true,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.LogFile == "" {
		return fmt.Errorf("%w: log-file is required", domain.ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	lib := c.Library()
	return lib.Validate()
}

// Library converts the CLI configuration into the app configuration.
func (c Config) Library() app.Config {
	return app.Config{
		SocketDir:    c.SocketDir,
		LogFile:      c.LogFile,
		Capacity:     c.Capacity,
		QueueSize:    c.QueueSize,
		PollInterval: c.PollInterval,
		MaxPolls:     c.MaxPolls,
		SettleDelay:  c.SettleDelay,
		AckDelay:     c.AckDelay,
	}
}

// configSetter applies values only for flags the user did not set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration. Zero is accepted so delays can
// be switched off.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses an int from an environment variable.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
