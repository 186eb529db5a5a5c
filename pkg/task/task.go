// Package task defines todo items and the observable sequence that holds them.
package task

import "fmt"

// Task is a single todo item.
type Task struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// New returns an open task with the given title. Empty titles are allowed.
func New(title string) Task {
	return Task{Title: title}
}

// Mark returns the checkbox glyph for the completion state.
func (t Task) Mark() string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

func (t Task) String() string {
	return fmt.Sprintf("%s %s", t.Mark(), t.Title)
}
