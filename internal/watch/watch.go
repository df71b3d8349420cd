// Package watch scans documents as they land in an inbox directory.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"originality/internal/ingest"
)

const DefaultQuiet = 2 * time.Second

// Handler is called once per settled file. Errors are logged and the
// watcher keeps going.
type Handler func(ctx context.Context, path string) error

type Watcher struct {
	dir   string
	quiet time.Duration
	fs    *fsnotify.Watcher

	// path -> time of the last write seen
	pending map[string]time.Time
	logger  *slog.Logger
}

// New watches dir. A file is handed off once no write has touched it for
// quiet; quiet <= 0 means DefaultQuiet.
func New(dir string, quiet time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve inbox: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat inbox: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox %s is not a directory", abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(abs); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", abs, err)
	}
	return &Watcher{
		dir:     abs,
		quiet:   quiet,
		fs:      fsw,
		pending: make(map[string]time.Time),
		logger:  logger.With("component", "watch"),
	}, nil
}

// Run blocks until ctx is done, calling handler for every supported file
// created or written in the inbox. Handlers run one at a time.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	defer w.fs.Close()

	ticker := time.NewTicker(max(w.quiet/4, 10*time.Millisecond))
	defer ticker.Stop()

	w.logger.Info("watching inbox", "dir", w.dir, "quiet", w.quiet)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !ingest.Supported(event.Name) {
				continue
			}
			w.pending[event.Name] = time.Now()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case now := <-ticker.C:
			for _, path := range w.settled(now) {
				if info, err := os.Stat(path); err != nil || info.IsDir() {
					continue
				}
				if err := handler(ctx, path); err != nil {
					w.logger.Error("scan failed", "file", path, "error", err)
				}
			}
		}
	}
}

// settled removes and returns the pending files that have been quiet long
// enough, in name order.
func (w *Watcher) settled(now time.Time) []string {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.quiet {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}
