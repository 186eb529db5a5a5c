package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tableflip.dev/todo/pkg/collection"
	"tableflip.dev/todo/pkg/task"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	g, err := OpenDir(filepath.Join(t.TempDir(), "nested", "app"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	records, err := g.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty store, got %+v", records)
	}
	s, err := g.LoadStore()
	if err != nil || s.Len() != 0 {
		t.Fatalf("expected empty store, got %v %v", s, err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	in := collection.FromRecords([]collection.Record{
		{Title: "Home", Tasks: []task.Task{{Title: "Buy milk"}, {Title: "Pay bills", Completed: true}}},
		{Title: "Empty"},
		{Title: "Home", Tasks: []task.Task{{Title: ""}}},
	})
	if err := g.SaveStore(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := g.LoadStore()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want, got := in.Records(), out.Records()
	if len(want) != len(got) {
		t.Fatalf("expected %d collections, got %d", len(want), len(got))
	}
	for i := range want {
		if want[i].Title != got[i].Title || len(want[i].Tasks) != len(got[i].Tasks) {
			t.Fatalf("collection %d mismatch: %+v vs %+v", i, want[i], got[i])
		}
		for j := range want[i].Tasks {
			if want[i].Tasks[j] != got[i].Tasks[j] {
				t.Fatalf("task %d/%d mismatch", i, j)
			}
		}
	}
}

func TestSaveWritesDocumentedSchema(t *testing.T) {
	g, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := g.Save([]collection.Record{{Title: "Home", Tasks: []task.Task{{Title: "Buy milk"}}}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(g.Dir(), DataFile))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	body := strings.Join(strings.Fields(string(data)), "")
	want := `[{"title":"Home","tasks":[{"title":"Buymilk","completed":false}]}]`
	if body != want {
		t.Fatalf("unexpected file body %s", body)
	}
}

func TestSaveOverwritesWholesale(t *testing.T) {
	g, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := g.Save([]collection.Record{{Title: "a"}, {Title: "b"}, {Title: "c"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := g.Save([]collection.Record{{Title: "only"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	records, err := g.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 || records[0].Title != "only" {
		t.Fatalf("expected single record, got %+v", records)
	}
}

func TestLoadMalformed(t *testing.T) {
	g, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := os.WriteFile(g.Path(), []byte(`[{"title": "Home", "tasks": [`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := g.Load(); !errors.Is(err, ErrDeserialization) {
		t.Fatalf("expected ErrDeserialization, got %v", err)
	}
}

func TestOpenDirCreationFailure(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := OpenDir(filepath.Join(blocker, "app")); !errors.Is(err, ErrDirectoryCreation) {
		t.Fatalf("expected ErrDirectoryCreation, got %v", err)
	}
}

func TestFailedSaveKeepsPreviousFile(t *testing.T) {
	g, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := g.Save([]collection.Record{{Title: "keep me"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Occupy the temp dir path with a file so the next write cannot stage.
	tmp := filepath.Join(g.Dir(), tempDir)
	if err := os.RemoveAll(tmp); err != nil {
		t.Fatalf("remove tmp: %v", err)
	}
	if err := os.WriteFile(tmp, []byte("x"), 0o644); err != nil {
		t.Fatalf("block tmp: %v", err)
	}

	if err := g.Save([]collection.Record{{Title: "replacement"}}); !errors.Is(err, ErrSerialization) {
		t.Fatalf("expected ErrSerialization, got %v", err)
	}
	records, err := g.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 || records[0].Title != "keep me" {
		t.Fatalf("previous content lost: %+v", records)
	}
}

func TestResolveDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	dir, err := ResolveDir(StaticConfig{ID: "com.example.todo"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-data", "com.example.todo") {
		t.Fatalf("unexpected dir %q", dir)
	}
	dir, err = ResolveDir(StaticConfig{Path: "/srv/todo"})
	if err != nil || dir != "/srv/todo" {
		t.Fatalf("expected configured path, got %q %v", dir, err)
	}
}
