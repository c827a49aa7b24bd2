package fs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Follow calls fn for every line appended to the log at path until ctx is
// cancelled. Existing content is skipped; use History to read it. The file
// does not need to exist yet.
func Follow(ctx context.Context, path string, fn func(line string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so creation and rotation of the file are seen.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	t := &tail{path: path, fn: fn}
	if err := t.open(true); err != nil {
		return err
	}
	defer t.close()

	name := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				t.close()
			case event.Op&fsnotify.Create != 0:
				t.close()
				if err := t.open(false); err != nil {
					return err
				}
				t.drain()
			case event.Op&fsnotify.Write != 0:
				if t.file == nil {
					if err := t.open(false); err != nil {
						return err
					}
				}
				t.drain()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
}

// tail reads complete lines from a growing file.
type tail struct {
	path    string
	fn      func(string)
	file    *os.File
	reader  *bufio.Reader
	partial strings.Builder
}

func (t *tail) open(seekEnd bool) error {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", t.path, err)
	}
	if seekEnd {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			f.Close()
			return fmt.Errorf("seek %s: %w", t.path, err)
		}
	}
	t.file = f
	t.reader = bufio.NewReader(f)
	t.partial.Reset()
	return nil
}

func (t *tail) drain() {
	if t.reader == nil {
		return
	}
	for {
		chunk, err := t.reader.ReadString('\n')
		t.partial.WriteString(chunk)
		if err != nil {
			// Incomplete line: keep it until the rest is written.
			return
		}
		line := strings.TrimRight(t.partial.String(), "\r\n")
		t.partial.Reset()
		t.fn(line)
	}
}

func (t *tail) close() {
	if t.file != nil {
		t.file.Close()
	}
	t.file = nil
	t.reader = nil
	t.partial.Reset()
}
