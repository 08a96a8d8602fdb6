package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file when it changes on disk.
// Reloaded configs are delivered on Updates; the consumer applies them
// between frames so the simulation never sees a config swap mid-tick.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	updates  chan *Config
	debounce time.Duration

	mu      sync.Mutex
	pending time.Time // zero when no reload is scheduled
	running bool
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("config watcher: empty path")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		path:     filepath.Clean(path),
		watcher:  fw,
		updates:  make(chan *Config, 1),
		debounce: 200 * time.Millisecond,
		doneCh:   make(chan struct{}),
	}, nil
}

// Updates returns the channel of successfully reloaded configs.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Start begins watching. The parent directory is watched so that editors
// which save via rename are still picked up.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		// run never started, so Close must not wait on doneCh
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	slog.Info("watching config", "path", w.path)

	go w.run(ctx)
	return nil
}

// Close stops the watcher and releases the fsnotify handle.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()
	if running {
		<-w.doneCh
	}
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "error", err)

		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

// handleEvent schedules a reload for writes or replacements of the watched file.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	w.mu.Lock()
	w.pending = time.Now().Add(w.debounce)
	w.mu.Unlock()
}

// flush reloads once the debounce deadline has passed.
func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	due := !w.pending.IsZero() && !now.Before(w.pending)
	if due {
		w.pending = time.Time{}
	}
	w.mu.Unlock()
	if !due {
		return
	}

	cfg, err := Load(w.path)
	if err != nil {
		slog.Warn("config reload rejected", "path", w.path, "error", err)
		return
	}

	// Keep only the newest config if the consumer has not drained the last one
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
	slog.Info("config reloaded", "path", w.path)
}
