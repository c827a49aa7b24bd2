package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

// FileConfig mirrors Config with string durations. The same struct is
// decoded from TOML and YAML.
type FileConfig struct {
	SocketDir    string `toml:"socket_dir" yaml:"socket_dir"`
	LogFile      string `toml:"log_file" yaml:"log_file"`
	Capacity     int    `toml:"capacity" yaml:"capacity"`
	QueueSize    int    `toml:"queue_size" yaml:"queue_size"`
	PollInterval string `toml:"poll_interval" yaml:"poll_interval"`
	MaxPolls     int    `toml:"max_polls" yaml:"max_polls"`
	SettleDelay  string `toml:"settle_delay" yaml:"settle_delay"`
	AckDelay     string `toml:"ack_delay" yaml:"ack_delay"`
	LogLevel     string `toml:"log_level" yaml:"log_level"`
	ShowHistory  *bool  `toml:"show_history" yaml:"show_history"`
}

// LoadFileConfig reads a config file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(b, &fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.sigtalk/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".sigtalk", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to cfg.
// Flags in changed keep their command-line value.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("socket-dir", fc.SocketDir, &cfg.SocketDir)
	s.setString("log-file", fc.LogFile, &cfg.LogFile)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("capacity", fc.Capacity, &cfg.Capacity)
	s.setInt("queue-size", fc.QueueSize, &cfg.QueueSize)
	s.setInt("max-polls", fc.MaxPolls, &cfg.MaxPolls)

	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("settle-delay", fc.SettleDelay, &cfg.SettleDelay); err != nil {
		return err
	}
	if err := s.setDuration("ack-delay", fc.AckDelay, &cfg.AckDelay); err != nil {
		return err
	}

	s.setBool("show-history", fc.ShowHistory, &cfg.ShowHistory)
	return nil
}

// FileExists reports whether a file exists at p.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
