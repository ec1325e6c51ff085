// Package watcher follows a template directory and reports changed files.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Change kinds passed to Callback.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// Callback receives the change kind and the root-relative slash path.
type Callback func(kind, path string)

// Watch reports changes of files ending in ext below root until ctx is
// cancelled. Directories created at runtime are added to the watch list.
func Watch(ctx context.Context, root, ext string, logger *slog.Logger, cb Callback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, ext) {
				continue
			}
			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			kind := classify(ev.Op)
			if kind == "" {
				continue
			}
			logger.Debug("watcher: change", slog.String("kind", kind), slog.String("path", rel))
			if cb != nil {
				cb(kind, rel)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func classify(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return Created
	case op&fsnotify.Write != 0:
		return Updated
	case op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// Rename fires on the old name; the new name arrives as Create.
		return Deleted
	}
	return ""
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
