package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AngelCh415/terrafedash/internal/models"
)

// Reloader is the part of DatasetStore the watcher drives.
type Reloader interface {
	Reload(ctx context.Context) (*models.Dataset, error)
}

// Watcher reloads the store when one of the watched files changes. Editors
// usually write through a rename, so the parent directories are watched and
// events are matched by file name.
type Watcher struct {
	w        *fsnotify.Watcher
	target   Reloader
	files    map[string]struct{}
	debounce time.Duration
	log      *slog.Logger
}

func NewWatcher(target Reloader, paths []string, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	files := map[string]struct{}{}
	dirs := map[string]struct{}{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return &Watcher{w: fw, target: target, files: files, debounce: debounce, log: log}, nil
}

// Run blocks until ctx is done, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.w.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("source changed", slog.String("file", ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", slog.String("err", err.Error()))
		case <-timer.C:
			if ds, err := w.target.Reload(ctx); err != nil {
				w.log.Error("reload after change failed", slog.String("err", err.Error()))
			} else {
				w.log.Info("dataset reloaded after change", slog.String("id", ds.ID))
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}
