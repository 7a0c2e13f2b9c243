package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/perspective-toy/internal/logger"
)

// Watcher reloads a config file when it changes on disk.
//
// Reloads happen on the watcher goroutine; the reloaded config is handed
// over through Changes so the caller can apply it on its own thread.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	changes chan *Config
	done    chan struct{}
}

// Watch starts watching path. The directory is watched rather than the
// file so that editors that save by renaming are picked up.
func Watch(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		fs:      fsw,
		changes: make(chan *Config, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Changes delivers each successfully reloaded config. Only the latest
// pending reload is kept.
func (w *Watcher) Changes() <-chan *Config {
	return w.changes
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	log := logger.Named("config")

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			// Environment and flag overrides still win over the file.
			cfg, err := load(w.path)
			if err != nil {
				log.Warn("config reload failed", zap.String("path", w.path), zap.Error(err))
				continue
			}
			log.Info("config reloaded", zap.String("path", w.path))
			w.publish(cfg)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn("config watcher error", zap.Error(err))
		}
	}
}

// publish replaces any undelivered config with cfg.
func (w *Watcher) publish(cfg *Config) {
	select {
	case <-w.changes:
	default:
	}
	w.changes <- cfg
}
