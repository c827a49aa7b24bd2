package configwatcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/sigtalk/internal/app"
	"github.com/bft-labs/sigtalk/internal/cliconfig"
)

func TestPlugin_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`log_level = "info"`), 0o644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan cliconfig.FileConfig, 4)
	p := New(Config{
		Path:          path,
		DebounceDelay: 10 * time.Millisecond,
		OnChange:      func(fc cliconfig.FileConfig) { changes <- fc },
	})

	if err := p.Initialize(context.Background(), app.PluginConfig{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer p.Shutdown(context.Background())

	if err := os.WriteFile(path, []byte(`log_level = "debug"`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case fc := <-changes:
		if fc.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", fc.LogLevel)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestPlugin_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan cliconfig.FileConfig, 4)
	p := New(Config{
		Path:          path,
		DebounceDelay: 10 * time.Millisecond,
		OnChange:      func(fc cliconfig.FileConfig) { changes <- fc },
	})
	if err := p.Initialize(context.Background(), app.PluginConfig{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer p.Shutdown(context.Background())

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case fc := <-changes:
		t.Errorf("unexpected reload: %+v", fc)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPlugin_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan cliconfig.FileConfig, 16)
	p := New(Config{
		Path:          path,
		DebounceDelay: 200 * time.Millisecond,
		OnChange:      func(fc cliconfig.FileConfig) { changes <- fc },
	})
	if err := p.Initialize(context.Background(), app.PluginConfig{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer p.Shutdown(context.Background())

	for i := 1; i <= 5; i++ {
		content := []byte("max_polls = " + string(rune('0'+i)))
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case fc := <-changes:
		if fc.MaxPolls != 5 {
			t.Errorf("MaxPolls = %d, want 5", fc.MaxPolls)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after writes")
	}

	select {
	case fc := <-changes:
		t.Errorf("burst produced a second reload: %+v", fc)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestPlugin_RequiresPath(t *testing.T) {
	p := New(Config{})
	err := p.Initialize(context.Background(), app.PluginConfig{})
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("Initialize = %v, want ErrNoPath", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown = %v", err)
	}
}

func TestPlugin_ShutdownStopsReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan cliconfig.FileConfig, 4)
	p := New(Config{
		Path:          path,
		DebounceDelay: 10 * time.Millisecond,
		OnChange:      func(fc cliconfig.FileConfig) { changes <- fc },
	})
	if err := p.Initialize(context.Background(), app.PluginConfig{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if err := os.WriteFile(path, []byte("capacity = 3"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case fc := <-changes:
		t.Errorf("reload after shutdown: %+v", fc)
	case <-time.After(200 * time.Millisecond):
	}
}
