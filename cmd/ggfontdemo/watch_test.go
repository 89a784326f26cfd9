package main

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/ggfont"
)

func TestIsSceneWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: path + ".swp", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := isSceneWrite(tt.event, path); got != tt.want {
			t.Errorf("isSceneWrite(%v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestWatchRebuildsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(path, []byte(`font = "a.ttf"`), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	built := make(chan Scene, 64)
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, path, nil, func(s Scene, _ fs.FS) error {
			built <- s
			return nil
		})
	}()

	// Give the watcher time to register before writing.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case s := <-built:
			if s.Font != "b.ttf" {
				t.Errorf("rebuilt scene font = %q, want b.ttf", s.Font)
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("watch() error = %v", err)
			}
			return
		case <-tick.C:
			if err := os.WriteFile(path, []byte(`font = "b.ttf"`), 0o600); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("scene was not rebuilt after writes")
		}
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchLogsReloadFailure(t *testing.T) {
	var logs lockedBuffer
	prev := ggfont.Logger()
	ggfont.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { ggfont.SetLogger(prev) })

	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(path, []byte(`font = "a.ttf"`), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, path, nil, func(Scene, fs.FS) error { return nil })
	}()
	defer func() {
		cancel()
		<-done
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for !strings.Contains(logs.String(), "scene reload failed") {
		select {
		case <-tick.C:
			if err := os.WriteFile(path, []byte(`bogus = 1`), 0o600); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatalf("reload failure not logged; got %q", logs.String())
		}
	}
}
