package pose

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Follow delivers every event already in the feed file at path, then keeps
// delivering lines appended to it until ctx is cancelled, the file is removed,
// or fn returns false. A trailing line without a newline is held until it is
// completed.
func Follow(ctx context.Context, path string, log *slog.Logger, fn func(Event) bool) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving feed path: %w", err)
	}

	f, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("opening feed: %w", err)
	}
	defer f.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating feed watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so the watch survives writers that replace the file.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching feed directory: %w", err)
	}

	t := &tail{r: bufio.NewReader(f), log: log, fn: fn}
	if more, err := t.drain(); err != nil || !more {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				log.Info("feed file went away", "path", abs)
				return nil
			}
			if event.Has(fsnotify.Write) {
				if more, err := t.drain(); err != nil || !more {
					return err
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; keep following.
			log.Warn("feed watcher error", "err", err)
		}
	}
}

type tail struct {
	r       *bufio.Reader
	partial strings.Builder
	log     *slog.Logger
	fn      func(Event) bool
	line    int
}

// drain consumes every complete line currently readable. It reports false
// when fn asked to stop.
func (t *tail) drain() (bool, error) {
	for {
		chunk, err := t.r.ReadString('\n')
		t.partial.WriteString(chunk)
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		if err != nil {
			return false, fmt.Errorf("reading feed: %w", err)
		}

		t.line++
		text := strings.TrimSpace(t.partial.String())
		t.partial.Reset()
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		ev, err := ParseEvent([]byte(text))
		if err != nil {
			t.log.Warn("skipping feed line", "line", t.line, "err", err)
			continue
		}
		if !t.fn(ev) {
			return false, nil
		}
	}
}
