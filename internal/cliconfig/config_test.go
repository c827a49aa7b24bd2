package cliconfig

import (
	"errors"
	"testing"
	"time"

	"github.com/bft-labs/sigtalk/internal/adapters/fs"
	"github.com/bft-labs/sigtalk/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Capacity != 1023 {
		t.Errorf("Capacity = %v, want 1023", cfg.Capacity)
	}
	if cfg.PollInterval != time.Millisecond {
		t.Errorf("PollInterval = %v, want 1ms", cfg.PollInterval)
	}
	if cfg.MaxPolls != 1000 {
		t.Errorf("MaxPolls = %v, want 1000", cfg.MaxPolls)
	}
	if cfg.SettleDelay != 50*time.Microsecond {
		t.Errorf("SettleDelay = %v, want 50µs", cfg.SettleDelay)
	}
	if cfg.AckDelay != 100*time.Microsecond {
		t.Errorf("AckDelay = %v, want 100µs", cfg.AckDelay)
	}
	if cfg.LogFile != fs.DefaultLogFile {
		t.Errorf("LogFile = %v, want %v", cfg.LogFile, fs.DefaultLogFile)
	}
	if !cfg.ShowHistory {
		t.Error("ShowHistory = false, want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "zero delays", modify: func(c *Config) { c.SettleDelay, c.AckDelay = 0, 0 }},
		{name: "disabled logging", modify: func(c *Config) { c.LogLevel = "off" }},
		{name: "empty log file", modify: func(c *Config) { c.LogFile = "" }, wantErr: true},
		{name: "empty socket dir", modify: func(c *Config) { c.SocketDir = "" }, wantErr: true},
		{name: "bad log level", modify: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "zero capacity", modify: func(c *Config) { c.Capacity = 0 }, wantErr: true},
		{name: "zero max polls", modify: func(c *Config) { c.MaxPolls = 0 }, wantErr: true},
		{name: "negative settle", modify: func(c *Config) { c.SettleDelay = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_Library(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SocketDir = "/run/sigtalk"
	cfg.Capacity = 16
	cfg.AckDelay = 0

	lib := cfg.Library()
	if lib.SocketDir != "/run/sigtalk" || lib.Capacity != 16 || lib.AckDelay != 0 {
		t.Errorf("Library() = %+v", lib)
	}
	if lib.MaxPolls != cfg.MaxPolls || lib.PollInterval != cfg.PollInterval {
		t.Errorf("Library() timing = %v/%v", lib.PollInterval, lib.MaxPolls)
	}
}

func TestConfigSetter(t *testing.T) {
	s := newConfigSetter(map[string]bool{"capacity": true})

	capacity := 10
	s.setInt("capacity", 99, &capacity)
	if capacity != 10 {
		t.Errorf("changed flag overwritten: %d", capacity)
	}

	polls := 10
	s.setInt("max-polls", -1, &polls)
	if polls != 10 {
		t.Errorf("non-positive value applied: %d", polls)
	}

	d := time.Second
	if err := s.setDuration("ack-delay", "0s", &d); err != nil {
		t.Fatalf("setDuration: %v", err)
	}
	if d != 0 {
		t.Errorf("ack-delay = %v, want 0", d)
	}
	if err := s.setDuration("poll", "soon", &d); err == nil {
		t.Error("expected parse error")
	}

	var on bool
	s.setBoolFromString("show-history", "1", &on)
	if !on {
		t.Error("\"1\" should parse as true")
	}
}
