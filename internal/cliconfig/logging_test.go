package cliconfig

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	Logger(zerolog.InfoLevel)
	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Fatalf("GlobalLevel() = %v, want info", got)
	}

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if got := zerolog.GlobalLevel(); got != zerolog.DebugLevel {
		t.Errorf("GlobalLevel() = %v, want debug", got)
	}

	if err := SetLevel(""); err != nil {
		t.Errorf("SetLevel(\"\") = %v", err)
	}
	if got := zerolog.GlobalLevel(); got != zerolog.DebugLevel {
		t.Errorf("empty name changed level to %v", got)
	}

	if err := SetLevel("shout"); err == nil {
		t.Error("SetLevel accepted an unknown level")
	}
}
