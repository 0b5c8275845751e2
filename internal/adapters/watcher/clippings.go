// Package watcher re-imports a clippings export whenever the file changes.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// DefaultSettleDelay is how long a file must stay unchanged before it is read.
// E-readers mounted over USB write the export in several chunks.
const DefaultSettleDelay = 2 * time.Second

// Importer replaces the imported quote collection.
type Importer interface {
	Import(ctx context.Context, raw string) ([]domain.Quote, error)
}

// Options configures a ClippingsWatcher.
type Options struct {
	// Path is the clippings export to watch.
	Path string

	// SettleDelay debounces bursts of writes. Defaults to DefaultSettleDelay.
	SettleDelay time.Duration
}

// ClippingsWatcher imports the watched file each time it settles after a write.
type ClippingsWatcher struct {
	path     string
	settle   time.Duration
	importer Importer
	logger   *slog.Logger
	watcher  *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a watcher for opts.Path. The parent directory is watched so
// that editors and devices replacing the file are seen too.
func New(importer Importer, opts Options, logger *slog.Logger) (*ClippingsWatcher, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("watch path is required")
	}

	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}

	if logger == nil {
		logger = slog.Default()
	}

	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving watch path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	err = fw.Add(filepath.Dir(path))
	if err != nil {
		_ = fw.Close()

		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	return &ClippingsWatcher{
		path:     path,
		settle:   opts.SettleDelay,
		importer: importer,
		logger:   logger.With(slog.String("component", "watcher.ClippingsWatcher"), slog.String("path", path)),
		watcher:  fw,
	}, nil
}

// Run processes file events until ctx is cancelled, then releases the watch.
func (w *ClippingsWatcher) Run(ctx context.Context) error {
	defer w.stop()

	w.logger.InfoContext(ctx, "watching clippings export")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			w.logger.WarnContext(ctx, "file watch error", slog.Any("error", err))
		}
	}
}

func (w *ClippingsWatcher) handle(ctx context.Context, event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.settle, func() { w.importFile(ctx) })
}

func (w *ClippingsWatcher) importFile(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	raw, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.WarnContext(ctx, "reading clippings export failed", slog.Any("error", err))

		return
	}

	quotes, err := w.importer.Import(ctx, string(raw))
	if err != nil {
		w.logger.ErrorContext(ctx, "clippings import failed", slog.Any("error", err))

		return
	}

	w.logger.InfoContext(ctx, "clippings export imported", slog.Int("count", len(quotes)))
}

func (w *ClippingsWatcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("closing file watcher", slog.Any("error", err))
	}
}
