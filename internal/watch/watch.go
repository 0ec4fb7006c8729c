// Package watch reports changes to a single file.
//
// The parent directory is watched rather than the file itself so that
// atomic replacements (write to a temp file, then rename) are seen.
// Bursts of events are debounced into one notification.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 100 * time.Millisecond

// Handler is called once per debounced change, on the watcher goroutine.
type Handler func(ctx context.Context)

// Watcher watches one file.
type Watcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	doneCh  chan struct{}
}

// New creates a Watcher for path. logger may be nil.
func New(path string, handler Handler, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	return &Watcher{
		path:     path,
		handler:  handler,
		debounce: DefaultDebounce,
		logger:   logger,
	}
}

// SetDebounce changes the quiet period. Call before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Path is the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() {
		if err := fw.Close(); err != nil {
			w.logger.Warn("closing watcher", zap.Error(err))
		}
	}()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.logger.Debug("watching", zap.String("path", w.path))

	tick := w.debounce / 2
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var pendingSince time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", zap.String("op", event.Op.String()), zap.String("path", event.Name))
			pendingSince = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			if pendingSince.IsZero() || now.Sub(pendingSince) < w.debounce {
				continue
			}
			pendingSince = time.Time{}
			w.handler(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0
}

// Start runs the watcher in a goroutine until Stop is called or ctx ends.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})
	go func() {
		defer close(w.doneCh)
		if err := w.Run(runCtx); err != nil {
			w.logger.Error("watcher stopped", zap.Error(err))
		}
	}()
}

// Stop ends a watcher started with Start and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel, done := w.cancel, w.doneCh
	w.mu.Unlock()

	cancel()
	<-done
}
