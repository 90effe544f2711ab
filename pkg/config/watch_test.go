package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func newTestWatcher(t *testing.T, path string) *FileWatcher {
	t.Helper()
	fw, err := NewFileWatcher(path, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = fw.Stop() })
	return fw
}

func TestWatcherResolvesRelativePath(t *testing.T) {
	fw := newTestWatcher(t, "callisto.yaml")

	if !filepath.IsAbs(fw.path) {
		t.Fatalf("watched path %q must be absolute", fw.path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if fw.path != filepath.Join(cwd, "callisto.yaml") {
		t.Errorf("watched path = %q", fw.path)
	}
}

func TestShouldProcessEvent(t *testing.T) {
	fw := newTestWatcher(t, "callisto.yaml")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	absName := filepath.Join(cwd, "callisto.yaml")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"absolute name", fsnotify.Event{Name: absName, Op: fsnotify.Write}, true},
		{"relative name", fsnotify.Event{Name: "callisto.yaml", Op: fsnotify.Write}, true},
		{"unclean name", fsnotify.Event{Name: "./callisto.yaml", Op: fsnotify.Write}, true},
		{"rename-based write", fsnotify.Event{Name: absName, Op: fsnotify.Create}, true},
		{"other file", fsnotify.Event{Name: filepath.Join(cwd, "other.yaml"), Op: fsnotify.Write}, false},
		{"chmod filtered", fsnotify.Event{Name: absName, Op: fsnotify.Chmod}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fw.shouldProcessEvent(tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %t, want %t", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatcherStopWithoutStart(t *testing.T) {
	fw := newTestWatcher(t, "callisto.yaml")
	if err := fw.Stop(); err != nil {
		t.Errorf("Stop before Watch must succeed, got %v", err)
	}
}
