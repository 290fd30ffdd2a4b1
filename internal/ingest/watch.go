package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// IsExport reports whether name looks like a game result export.
func IsExport(name string) bool {
	name = strings.TrimSuffix(strings.ToLower(name), ".zst")
	switch filepath.Ext(name) {
	case ".json", ".jsonl", ".ndjson":
		return true
	}
	return false
}

// Watcher calls Handle for export files created or rewritten in Dir.
// Bursts of writes to one file collapse into a single call.
type Watcher struct {
	Dir      string
	Handle   func(ctx context.Context, path string) error
	Debounce time.Duration
	Logger   *slog.Logger

	// Existing also handles exports already present at start.
	Existing bool
}

// Watch runs a Watcher with defaults until ctx is done.
func Watch(ctx context.Context, dir string, fn func(ctx context.Context, path string) error) error {
	w := &Watcher{Dir: dir, Handle: fn}
	return w.Run(ctx)
}

// Run blocks until ctx is done or the watcher fails. Handler errors are
// logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}

	pending := make(map[string]time.Time)
	if w.Existing {
		entries, err := os.ReadDir(w.Dir)
		if err != nil {
			return fmt.Errorf("list %s: %w", w.Dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() && IsExport(e.Name()) {
				pending[filepath.Join(w.Dir, e.Name())] = time.Time{}
			}
		}
	}

	tick := time.NewTicker(debounce / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if IsExport(ev.Name) {
				pending[ev.Name] = time.Now()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "dir", w.Dir, "err", err)
		case now := <-tick.C:
			for path, last := range pending {
				if now.Sub(last) < debounce {
					continue
				}
				delete(pending, path)
				logger.Info("export changed", "path", path)
				if err := w.Handle(ctx, path); err != nil {
					logger.Warn("handle export", "path", path, "err", err)
				}
			}
		}
	}
}
