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

// FileWatcher watches the active configuration file for changes. Because
// the interception decision cache is fixed after warm-up, changes never
// take effect at runtime; the watcher only warns that the on-disk file has
// drifted and a restart is required. Debouncing prevents warning storms
// from editors that write in multiple events.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	path     string
	debounce *Debouncer

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewFileWatcher creates a watcher for the configuration file at path.
// The path is resolved to its absolute form so event names compare
// reliably regardless of how the path was given.
func NewFileWatcher(path string, debounceInterval time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounceInterval <= 0 {
		debounceInterval = 100 * time.Millisecond
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration path %q: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		logger:   logger,
		path:     abs,
		debounce: NewDebouncer(debounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks processing file events until the context is cancelled or
// Stop is called. onChange is invoked (debounced) after each detected edit;
// a nil onChange logs the restart-required warning.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func()) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	// Watch the containing directory so the watch survives rename-based
	// atomic writes of the file itself.
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return fmt.Errorf("failed to watch configuration directory: %w", err)
	}

	fw.logger.Info("Configuration file watcher started", "path", fw.path)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("Configuration file watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("Configuration file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !fw.shouldProcessEvent(event) {
				continue
			}

			fw.debounce.Trigger(func() {
				fw.logger.Warn("Configuration file changed on disk; restart required for changes to take effect",
					"path", fw.path,
					"op", event.Op.String(),
				)
				if onChange != nil {
					onChange()
				}
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("Configuration file watcher error", "error", err)
			// Continue watching despite errors
		}
	}
}

// Stop stops the event loop if it is still running and closes the
// underlying watcher. Safe to call after the loop already exited through
// context cancellation, and safe to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		fw.mu.Lock()
		running := fw.running
		fw.mu.Unlock()

		if running {
			close(fw.stopCh)
			<-fw.doneCh
		}

		fw.debounce.Stop()

		if closeErr := fw.watcher.Close(); closeErr != nil {
			err = fmt.Errorf("failed to close watcher: %w", closeErr)
		}
	})
	return err
}

// shouldProcessEvent filters to write-shaped events on the watched file.
// fw.path is absolute; event names are normalized to match.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	name := event.Name
	if !filepath.IsAbs(name) {
		abs, err := filepath.Abs(name)
		if err != nil {
			return false
		}
		name = abs
	}
	return filepath.Clean(name) == fw.path
}

// Debouncer collects rapid events and triggers the callback only after a
// quiet period.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopCh   chan struct{}
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Trigger arms the debouncer; the callback runs after the debounce interval
// if no new events arrive first.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	})
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
