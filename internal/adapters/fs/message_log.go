// Package fs implements the append-only message log.
package fs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/internal/ports"
)

// DefaultLogFile is the log file name used when none is configured.
const DefaultLogFile = "sigtalk.log"

// MessageLog implements ports.MessageSink by appending one line per message.
//
// Line format:
//
//	<RFC3339 time> peer=<pid> language=<label> message=<Go-quoted text>
//
// Truncated messages carry a trailing " truncated" marker.
type MessageLog struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// OpenMessageLog opens (creating if needed) the log at path for appending.
func OpenMessageLog(path string) (*MessageLog, error) {
	if path == "" {
		path = DefaultLogFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open message log: %w", err)
	}
	return &MessageLog{path: path, file: f}, nil
}

// MessageFinalized appends msg and syncs the file.
func (l *MessageLog) MessageFinalized(ctx context.Context, msg domain.Received) error {
	line := FormatEntry(msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return os.ErrClosed
	}
	if _, err := l.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return l.file.Sync()
}

// Path returns the log file path.
func (l *MessageLog) Path() string { return l.path }

// Close closes the underlying file.
func (l *MessageLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// FormatEntry renders a log line without the trailing newline.
func FormatEntry(msg domain.Received) string {
	ts := msg.ReceivedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	line := fmt.Sprintf("%s peer=%d language=%s message=%q",
		ts.UTC().Format(time.RFC3339), msg.Peer, msg.Language, msg.Text)
	if msg.Truncated {
		line += " truncated"
	}
	return line
}

// History returns every line of the log at path. A missing file yields no
// lines and no error.
func History(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return lines, fmt.Errorf("read history: %w", err)
	}
	return lines, nil
}

// Ensure MessageLog implements ports.MessageSink.
var _ ports.MessageSink = (*MessageLog)(nil)
