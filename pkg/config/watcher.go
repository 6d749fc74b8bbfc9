package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce groups the burst of events editors emit on save into a
// single reload.
const defaultDebounce = 200 * time.Millisecond

// Watcher reloads the project config whenever its file changes on disk and
// hands the fresh config to a callback. The parent directory is watched
// rather than the file itself, since editors typically replace the file on
// save.
//
// Usage:
//
//	w, err := config.NewWatcher(config.DefaultPath, onReload, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(*Config)
	logger   *slog.Logger

	debounce   time.Duration
	debounceMu sync.Mutex
	timer      *time.Timer

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher for the config file at path. onChange runs
// on the watcher goroutine after each debounced change, receiving the
// reloaded config; it is not called when the file fails to load.
func NewWatcher(path string, onChange func(*Config), logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:  fsw,
		path:     filepath.Clean(path),
		onChange: onChange,
		logger:   logger,
		debounce: defaultDebounce,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins watching and spawns the event loop.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.logger.Info("config watcher started", "path", w.path)
	go w.eventLoop()
	return nil
}

// Stop stops the watcher. Idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("config watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
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
			w.logger.Error("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	w.logger.Debug("config file event", "op", event.Op.String(), "file", event.Name)
	w.debounceReload()
}

// debounceReload schedules a reload after the debounce window, resetting
// the timer on every new event.
func (w *Watcher) debounceReload() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("failed to reload config", "path", w.path, "error", err)
		return
	}
	if cfg == nil {
		w.logger.Debug("config file removed, keeping previous settings", "path", w.path)
		return
	}

	w.logger.Info("config reloaded", "path", w.path)
	w.onChange(cfg)
}
