package store

import (
	"context"
	"os"
	"testing"
	"time"

	"tableflip.dev/todo/pkg/collection"
	"tableflip.dev/todo/pkg/task"
)

func TestWatchReportsForeignWrites(t *testing.T) {
	g, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := g.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow the watcher goroutine to start before writing.
	time.Sleep(50 * time.Millisecond)

	data := []byte(`[{"title":"Inbox","tasks":[{"title":"from elsewhere","completed":false}]}]`)
	if err := os.WriteFile(g.Path(), data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventDataChanged {
				if evt.Path != g.Path() {
					t.Fatalf("expected path %q, got %q", g.Path(), evt.Path)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for data change event")
		}
	}
}

func TestWatchIgnoresOwnSaves(t *testing.T) {
	g, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := g.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := g.Save([]collection.Record{{Title: "Home", Tasks: []task.Task{{Title: "Buy milk"}}}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case evt := <-ch:
		if evt.Type == EventDataChanged {
			t.Fatalf("own save reported as foreign change: %+v", evt)
		}
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	g, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := g.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}
