package viewmodel

import (
	"testing"

	"tableflip.dev/todo/pkg/collection"
	"tableflip.dev/todo/pkg/task"
)

func TestBuildCountsAndOrder(t *testing.T) {
	s := collection.FromRecords([]collection.Record{
		{Title: "Home", Tasks: []task.Task{{Title: "Buy milk"}, {Title: "Pay bills", Completed: true}}},
		{Title: "Work"},
		{Title: "Home", Tasks: []task.Task{{Title: "Fix door"}}},
	})

	rows := Build(s)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Open != 1 || rows[0].Done != 1 {
		t.Fatalf("unexpected counts for Home: %+v", rows[0])
	}
	if rows[1].Label() != "Work" || rows[1].Total() != 0 {
		t.Fatalf("unexpected Work row: %+v", rows[1])
	}
	if !rows[2].Duplicate {
		t.Fatalf("expected second Home to be marked duplicate")
	}
	if rows[2].Label() != "Home (3)" {
		t.Fatalf("unexpected duplicate label %q", rows[2].Label())
	}
}

func TestBuildHideEmpty(t *testing.T) {
	s := collection.FromRecords([]collection.Record{
		{Title: ""},
		{Title: "Inbox", Tasks: []task.Task{{Title: "x"}}},
	})
	rows := Build(s, WithHideEmpty())
	if len(rows) != 1 || rows[0].Title != "Inbox" || rows[0].Index != 1 {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if got := Build(s)[0].Label(); got != "Untitled" {
		t.Fatalf("expected Untitled label, got %q", got)
	}
}
