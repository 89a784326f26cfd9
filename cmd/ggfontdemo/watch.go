package main

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/ggfont"
)

// watch re-runs build every time the scene file is written, until ctx is
// done. The directory is watched rather than the file so editors that
// replace the file on save keep triggering.
func watch(ctx context.Context, scenePath string, fsys fs.FS, build func(Scene, fs.FS) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(scenePath)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSceneWrite(event, abs) {
				continue
			}
			scene, err := loadScene(abs)
			if err != nil {
				ggfont.Logger().Error("demo: scene reload failed", "path", abs, "err", err)
				continue
			}
			if err := build(scene, fsys); err != nil {
				ggfont.Logger().Error("demo: render failed", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ggfont.Logger().Error("demo: scene watcher error", "err", err)
		}
	}
}

func isSceneWrite(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
