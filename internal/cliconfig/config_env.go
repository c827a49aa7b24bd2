package cliconfig

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnvConfig applies SIGTALK_* environment variables to cfg.
// Flags in changed keep their command-line value.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("socket-dir", os.Getenv("SIGTALK_SOCKET_DIR"), &cfg.SocketDir)
	s.setString("log-file", os.Getenv("SIGTALK_LOG_FILE"), &cfg.LogFile)
	s.setString("log-level", os.Getenv("SIGTALK_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("capacity", os.Getenv("SIGTALK_CAPACITY"), &cfg.Capacity); err != nil {
		return err
	}
	if err := s.setIntFromString("queue-size", os.Getenv("SIGTALK_QUEUE_SIZE"), &cfg.QueueSize); err != nil {
		return err
	}
	if err := s.setIntFromString("max-polls", os.Getenv("SIGTALK_MAX_POLLS"), &cfg.MaxPolls); err != nil {
		return err
	}

	if err := s.setDuration("poll", os.Getenv("SIGTALK_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("settle-delay", os.Getenv("SIGTALK_SETTLE_DELAY"), &cfg.SettleDelay); err != nil {
		return err
	}
	if err := s.setDuration("ack-delay", os.Getenv("SIGTALK_ACK_DELAY"), &cfg.AckDelay); err != nil {
		return err
	}

	s.setBoolFromString("show-history", os.Getenv("SIGTALK_SHOW_HISTORY"), &cfg.ShowHistory)
	return nil
}
