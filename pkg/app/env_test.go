package app

import (
	"os"
	"path/filepath"
	"testing"

	"tableflip.dev/todo/pkg/collection"
	"tableflip.dev/todo/pkg/filter"
	"tableflip.dev/todo/pkg/settings"
	"tableflip.dev/todo/pkg/store"
	"tableflip.dev/todo/pkg/task"
)

func TestEnvOpensStores(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	cfg := store.StaticConfig{Path: filepath.Join(base, "data"), ID: "com.example.todo"}

	g, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := g.Save([]collection.Record{{Title: "Home", Tasks: []task.Task{{Title: "Buy milk"}}}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	env := NewEnv(cfg, nil)
	defer env.Close()
	if len(env.Notices) != 0 {
		t.Fatalf("unexpected notices %v", env.Notices)
	}
	if _, ok := env.Settings.Settings(); !ok {
		t.Fatal("expected settings store")
	}

	sess := env.OpenSession()
	defer sess.Close()
	if sess.Store().Len() != 1 || !sess.TaskListVisible() {
		t.Fatalf("expected seeded collection visible")
	}

	if err := sess.SetPreference(filter.Done); err != nil {
		t.Fatalf("set preference: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "config", "com.example.todo", settings.FileName)); err != nil {
		t.Fatalf("expected settings file: %v", err)
	}
	if sess.TaskListVisible() {
		t.Fatal("Done filter should hide the open task")
	}
}

func TestEnvDegradesToMemory(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))

	env := NewEnv(store.StaticConfig{Path: filepath.Join(blocker, "data")}, nil)
	defer env.Close()

	if env.Persistence() != nil {
		t.Fatal("expected in-memory mode")
	}
	if len(env.Notices) != 1 {
		t.Fatalf("expected a data directory notice, got %v", env.Notices)
	}

	sess := env.OpenSession()
	defer sess.Close()
	if sess.Persistent() {
		t.Fatal("session should not persist")
	}
	if _, err := sess.NewCollection("Scratch"); err != nil {
		t.Fatalf("new collection: %v", err)
	}
}
