// Package filter selects which tasks are visible by completion state and keeps
// live filtered views in sync with their source lists.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/todo/pkg/task"
)

// Preference is the persisted filter choice.
type Preference string

const (
	// All shows every task.
	All Preference = "All"
	// Open shows tasks that are not completed.
	Open Preference = "Open"
	// Done shows completed tasks.
	Done Preference = "Done"
)

// ErrUnknownPreference marks a stored value that is not All, Open or Done.
var ErrUnknownPreference = errors.New("filter: unknown preference")

// Preferences lists the valid values in menu order.
func Preferences() []Preference {
	return []Preference{All, Open, Done}
}

// ParsePreference converts a stored string to a Preference. Matching ignores
// case and surrounding space. Unknown values yield All plus an error wrapping
// ErrUnknownPreference, so callers can log and continue.
func ParsePreference(raw string) (Preference, error) {
	trimmed := strings.TrimSpace(raw)
	for _, p := range Preferences() {
		if strings.EqualFold(string(p), trimmed) {
			return p, nil
		}
	}
	return All, fmt.Errorf("%w: %q", ErrUnknownPreference, raw)
}

// Next cycles All -> Open -> Done -> All.
func (p Preference) Next() Preference {
	switch p {
	case All:
		return Open
	case Open:
		return Done
	default:
		return All
	}
}

// Predicate reports whether a task is visible.
type Predicate func(task.Task) bool

// PredicateFor maps a preference to its predicate. All maps to nil, which
// means "no filtering".
func PredicateFor(p Preference) Predicate {
	switch p {
	case Open:
		return func(t task.Task) bool { return !t.Completed }
	case Done:
		return func(t task.Task) bool { return t.Completed }
	default:
		return nil
	}
}

// Matches applies pred to t, treating a nil predicate as "show all".
func Matches(pred Predicate, t task.Task) bool {
	return pred == nil || pred(t)
}
