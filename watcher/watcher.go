// Package watcher reloads the history store when another process rewrites
// the config file.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Reloader is implemented by history.Store.
type Reloader interface {
	Path() string
	Reload()
}

// settle is how long to wait for a burst of writes to finish.
const settle = 100 * time.Millisecond

// Watch blocks until ctx is done, calling r.Reload and then onChange after
// the config file is written or replaced. The directory is watched rather
// than the file since saves replace it by rename.
func Watch(ctx context.Context, log *zap.SugaredLogger, r Reloader, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "cannot setup watcher")
	}
	defer w.Close() // nolint:errcheck

	target := filepath.Clean(r.Path())
	if err := w.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "cannot watch %q", filepath.Dir(target))
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnw("config watch error", "err", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(settle)
		case <-pending:
			pending = nil
			log.Infow("config file changed, reloading", "path", target)
			r.Reload()
			if onChange != nil {
				onChange()
			}
		}
	}
}
