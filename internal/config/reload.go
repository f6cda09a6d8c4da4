package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tubesync/internal/log"
)

const reloadDebounce = 500 * time.Millisecond

// Watcher reloads a config file when it changes and hands the new config to
// a callback. The callback runs on a timer goroutine.
type Watcher struct {
	path     string
	onReload func(*Config)
	logger   zerolog.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
	done    chan struct{}
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, onReload func(*Config)) *Watcher {
	return &Watcher{
		path:     path,
		onReload: onReload,
		logger:   log.WithComponent("config"),
	}
}

// Start begins watching. The parent directory is watched so that editors
// replacing the file are noticed. If path is empty, Start is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	if w.path == "" {
		w.logger.Info().
			Str("event", "config.watcher_disabled").
			Msg("no config file to watch")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}

	w.mu.Lock()
	w.watcher = watcher
	w.done = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info().
		Str("event", "config.watcher_started").
		Str("path", w.path).
		Msg("watching config file for changes")

	go w.watchLoop(ctx, watcher, w.done)
	return nil
}

func (w *Watcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			_ = watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}

			// Watch for Write and Create events (covers vim, nano, echo)
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.logger.Debug().
					Str("event", "config.file_changed").
					Str("op", event.Op.String()).
					Msg("config file changed")
				w.schedule()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().
				Err(err).
				Str("event", "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := LoadFrom(w.path)
	if err != nil {
		w.logger.Error().
			Err(err).
			Str("event", "config.reload_failed").
			Msg("failed to reload configuration")
		return
	}

	w.logger.Info().
		Str("event", "config.reload_success").
		Msg("configuration reloaded")
	w.onReload(cfg)
}

// Stop stops the watcher and any pending reload.
func (w *Watcher) Stop() {
	w.mu.Lock()
	watcher, done := w.watcher, w.done
	w.watcher = nil
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if watcher != nil {
		_ = watcher.Close()
		<-done
	}
}
