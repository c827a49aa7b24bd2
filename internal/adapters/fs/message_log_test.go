package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bft-labs/sigtalk/internal/domain"
)

func TestMessageLog_AppendsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "messages.log")
	ml, err := OpenMessageLog(path)
	if err != nil {
		t.Fatalf("OpenMessageLog() error = %v", err)
	}

	at := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	msgs := []domain.Received{
		{Peer: 4242, Text: "le chat", Language: "French", ReceivedAt: at},
		{Peer: 7, Text: "two\nlines", Language: "English", ReceivedAt: at, Truncated: true},
	}
	for _, m := range msgs {
		if err := ml.MessageFinalized(context.Background(), m); err != nil {
			t.Fatalf("MessageFinalized() error = %v", err)
		}
	}
	if err := ml.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines, err := History(path)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	want := []string{
		`2025-01-06T12:00:00Z peer=4242 language=French message="le chat"`,
		`2025-01-06T12:00:00Z peer=7 language=English message="two\nlines" truncated`,
	}
	if len(lines) != len(want) {
		t.Fatalf("History() = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestMessageLog_ReopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.log")
	for i := 0; i < 2; i++ {
		ml, err := OpenMessageLog(path)
		if err != nil {
			t.Fatalf("OpenMessageLog() error = %v", err)
		}
		if err := ml.MessageFinalized(context.Background(), domain.Received{Peer: 1, Text: "hi"}); err != nil {
			t.Fatal(err)
		}
		ml.Close()
	}

	lines, _ := History(path)
	if len(lines) != 2 {
		t.Errorf("got %d lines, want 2", len(lines))
	}
}

func TestMessageLog_WriteAfterClose(t *testing.T) {
	ml, err := OpenMessageLog(filepath.Join(t.TempDir(), "m.log"))
	if err != nil {
		t.Fatal(err)
	}
	ml.Close()
	if err := ml.MessageFinalized(context.Background(), domain.Received{Text: "x"}); err == nil {
		t.Error("expected error after Close")
	}
}

func TestHistory_MissingFile(t *testing.T) {
	lines, err := History(filepath.Join(t.TempDir(), "absent.log"))
	if err != nil || lines != nil {
		t.Errorf("History() = %v, %v; want nil, nil", lines, err)
	}
}

func TestFollow_EmitsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.log")
	if err := os.WriteFile(path, []byte("old line\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- Follow(ctx, path, func(line string) { lines <- line })
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("first ")
	f.WriteString("half\nsecond\n")
	f.Close()

	var got []string
	timeout := time.After(3 * time.Second)
	for len(got) < 2 {
		select {
		case l := <-lines:
			got = append(got, l)
		case <-timeout:
			t.Fatalf("timed out, got %q", got)
		}
	}
	if strings.Join(got, "|") != "first half|second" {
		t.Errorf("got %q", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Follow did not return after cancel")
	}
}

func TestFollow_WaitsForFileCreation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.log")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := make(chan string, 8)
	go Follow(ctx, path, func(line string) { lines <- line })
	time.Sleep(100 * time.Millisecond)

	ml, err := OpenMessageLog(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ml.Close()
	if err := ml.MessageFinalized(ctx, domain.Received{Peer: 3, Text: "hola", Language: "Spanish"}); err != nil {
		t.Fatal(err)
	}

	select {
	case l := <-lines:
		if !strings.Contains(l, `message="hola"`) {
			t.Errorf("line = %q", l)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for line")
	}
}
