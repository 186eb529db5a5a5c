package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/collection/viewmodel"
	"tableflip.dev/todo/pkg/filter"
	"tableflip.dev/todo/pkg/task"
)

func init() {
	color.NoColor = true
}

func TestTasksWithNumbers(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{ShowNumbers: true, Out: &buf}

	pp.TitleWithCount("Home", 1, filter.Done)
	pp.Tasks(app.Row{Number: 2, Task: task.Task{Title: "Pay bills", Completed: true}})

	got := buf.String()
	for _, want := range []string{"Home - 1 task (done)", "2    [x] Pay bills"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestTasksEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.TitleWithCount("Work", 0, filter.All)
	pp.Tasks()
	got := buf.String()
	if !strings.Contains(got, "Work - 0 tasks\n") || !strings.Contains(got, "none") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestCollectionsTable(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Collections([]viewmodel.Summary{
		{Index: 0, Title: "Home", Open: 1, Done: 1},
		{Index: 1, Title: "Home", Duplicate: true},
	})
	got := buf.String()
	if !strings.Contains(got, "Collection") || !strings.Contains(got, "Home (2)") {
		t.Fatalf("unexpected table:\n%s", got)
	}

	buf.Reset()
	pp.Collections(nil)
	if strings.TrimSpace(buf.String()) != "no collections" {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}
