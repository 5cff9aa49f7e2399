package watch_fs

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDelay = 300 * time.Millisecond

// Watch calls fire once changes to path have settled for delay. The parent
// directory is watched so editors that replace the file are seen too.
// fire runs on the watcher goroutine, so calls never overlap.
// Watch returns after setup; the watcher stops with ctx.
func Watch(ctx context.Context, path string, delay time.Duration, log *zap.Logger, fire func()) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return err
	}

	go func() {
		defer func() { _ = w.Close() }()

		var timer *time.Timer
		due := make(chan struct{}, 1)
		signal := func() {
			select {
			case due <- struct{}{}:
			default:
			}
		}
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-due:
				fire()
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer == nil {
					timer = time.AfterFunc(delay, signal)
				} else {
					timer.Stop()
					timer.Reset(delay)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("fsnotify error", zap.Error(err))
			}
		}
	}()

	return nil
}
