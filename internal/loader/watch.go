package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/roach88/staticmodel/internal/model"
)

// ReloadFunc is called after every reload attempt. err is nil on success.
type ReloadFunc func(path string, err error)

// Watch reapplies a dataset file to reg whenever it is written or
// recreated. It blocks until ctx is cancelled and then returns ctx.Err().
//
// Parent directories are watched rather than the files, so editors that
// save by rename are still seen. A file that fails to read or apply leaves
// the previous records in place.
func Watch(ctx context.Context, reg *model.Registry, paths []string, onReload ReloadFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", p, err)
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	slog.InfoContext(ctx, "watching datasets", "files", len(files))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !files[abs] {
				continue
			}
			err = reload(ctx, reg, abs)
			if err != nil {
				slog.WarnContext(ctx, "dataset reload failed", "path", abs, "err", err)
			} else {
				slog.InfoContext(ctx, "dataset reloaded", "path", abs)
			}
			if onReload != nil {
				onReload(abs, err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "watcher error", "err", err)
		}
	}
}

func reload(ctx context.Context, reg *model.Registry, path string) error {
	ds, err := ReadFileContext(ctx, path)
	if err != nil {
		return err
	}
	return ds.Apply(reg)
}
