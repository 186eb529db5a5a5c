package viewmodel

import (
	"fmt"
	"strings"

	"tableflip.dev/todo/pkg/collection"
)

// Summary describes a collection row in the sidebar so UI layers do not have
// to walk task lists themselves.
type Summary struct {
	Index int
	Title string
	Open  int
	Done  int

	// Duplicate is set when an earlier collection carries the same title.
	Duplicate bool
}

// Total is the number of tasks in the collection.
func (s Summary) Total() int {
	return s.Open + s.Done
}

// Label renders the title, falling back for empty and duplicated titles.
func (s Summary) Label() string {
	title := strings.TrimSpace(s.Title)
	if title == "" {
		title = "Untitled"
	}
	if s.Duplicate {
		return fmt.Sprintf("%s (%d)", title, s.Index+1)
	}
	return title
}

// Option customises Build behaviour.
type Option func(*buildOptions)

// WithHideEmpty drops collections without tasks.
func WithHideEmpty() Option {
	return func(opts *buildOptions) {
		opts.hideEmpty = true
	}
}

type buildOptions struct {
	hideEmpty bool
}

// Build converts a store into sidebar summaries in store order.
func Build(s *collection.Store, opts ...Option) []Summary {
	if s == nil || s.Len() == 0 {
		return nil
	}
	config := &buildOptions{}
	for _, opt := range opts {
		opt(config)
	}

	seen := make(map[string]bool, s.Len())
	out := make([]Summary, 0, s.Len())
	for i, c := range s.Collections() {
		open, done := c.Counts()
		sum := Summary{
			Index:     i,
			Title:     c.Title,
			Open:      open,
			Done:      done,
			Duplicate: seen[c.Title],
		}
		seen[c.Title] = true
		if config.hideEmpty && sum.Total() == 0 {
			continue
		}
		out = append(out, sum)
	}
	return out
}
