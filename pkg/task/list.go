package task

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOutOfRange is returned when an index does not address a task in the list.
var ErrOutOfRange = errors.New("task: index out of range")

// ChangeKind describes how a List changed.
type ChangeKind int

const (
	// Inserted means Task now lives at Index.
	Inserted ChangeKind = iota
	// Removed means the task previously at Index is gone.
	Removed
	// Updated means the task at Index changed title or completion.
	Updated
)

func (k ChangeKind) String() string {
	switch k {
	case Inserted:
		return "inserted"
	case Removed:
		return "removed"
	case Updated:
		return "updated"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change is delivered to subscribers after every mutation.
type Change struct {
	Kind  ChangeKind
	Index int
	Task  Task
}

// SubscriptionID identifies a subscriber so it can be removed later.
type SubscriptionID uint64

// List is an ordered, observable sequence of tasks. Order is display order.
//
// A List is not safe for concurrent use; it is owned by a single goroutine.
// Hand Items() copies to other goroutines instead.
type List struct {
	items []Task

	nextID      SubscriptionID
	subscribers map[SubscriptionID]func(Change)
}

// NewList returns a list seeded with copies of tasks.
func NewList(tasks ...Task) *List {
	l := &List{items: make([]Task, 0, len(tasks))}
	l.items = append(l.items, tasks...)
	return l
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.items)
}

// At returns the task at i.
func (l *List) At(i int) (Task, error) {
	if i < 0 || i >= len(l.items) {
		return Task{}, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(l.items))
	}
	return l.items[i], nil
}

// Items returns a copy of the tasks in order.
func (l *List) Items() []Task {
	out := make([]Task, len(l.items))
	copy(out, l.items)
	return out
}

// Append adds t at the end of the list and returns its index.
func (l *List) Append(t Task) int {
	l.items = append(l.items, t)
	idx := len(l.items) - 1
	l.notify(Change{Kind: Inserted, Index: idx, Task: t})
	return idx
}

// Insert places t at position i, shifting later tasks down. i == Len() appends.
func (l *List) Insert(i int, t Task) error {
	if i < 0 || i > len(l.items) {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(l.items))
	}
	l.items = append(l.items, Task{})
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = t
	l.notify(Change{Kind: Inserted, Index: i, Task: t})
	return nil
}

// Remove deletes the task at i and returns it.
func (l *List) Remove(i int) (Task, error) {
	if i < 0 || i >= len(l.items) {
		return Task{}, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(l.items))
	}
	t := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.notify(Change{Kind: Removed, Index: i, Task: t})
	return t, nil
}

// SetCompleted sets the completion flag of the task at i. Setting the current
// value again is a no-op and emits nothing.
func (l *List) SetCompleted(i int, completed bool) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(l.items))
	}
	if l.items[i].Completed == completed {
		return nil
	}
	l.items[i].Completed = completed
	l.notify(Change{Kind: Updated, Index: i, Task: l.items[i]})
	return nil
}

// Toggle flips the completion flag of the task at i.
func (l *List) Toggle(i int) error {
	t, err := l.At(i)
	if err != nil {
		return err
	}
	return l.SetCompleted(i, !t.Completed)
}

// SetTitle renames the task at i.
func (l *List) SetTitle(i int, title string) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(l.items))
	}
	if l.items[i].Title == title {
		return nil
	}
	l.items[i].Title = title
	l.notify(Change{Kind: Updated, Index: i, Task: l.items[i]})
	return nil
}

// RemoveCompleted drops every completed task and returns how many were
// removed. Removals are emitted back to front so each Index is valid at the
// time it is delivered.
func (l *List) RemoveCompleted() int {
	removed := 0
	for i := len(l.items) - 1; i >= 0; i-- {
		if !l.items[i].Completed {
			continue
		}
		t := l.items[i]
		l.items = append(l.items[:i], l.items[i+1:]...)
		removed++
		l.notify(Change{Kind: Removed, Index: i, Task: t})
	}
	return removed
}

// Subscribe registers fn to be called after every mutation.
func (l *List) Subscribe(fn func(Change)) SubscriptionID {
	if l.subscribers == nil {
		l.subscribers = make(map[SubscriptionID]func(Change))
	}
	l.nextID++
	l.subscribers[l.nextID] = fn
	return l.nextID
}

// Unsubscribe removes a subscriber. Unknown ids are ignored.
func (l *List) Unsubscribe(id SubscriptionID) {
	delete(l.subscribers, id)
}

// Subscribers reports how many subscribers are attached.
func (l *List) Subscribers() int {
	return len(l.subscribers)
}

func (l *List) notify(c Change) {
	if len(l.subscribers) == 0 {
		return
	}
	// Deliver in registration order so views built earlier update first.
	ids := make([]SubscriptionID, 0, len(l.subscribers))
	for id := range l.subscribers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if fn, ok := l.subscribers[id]; ok {
			fn(c)
		}
	}
}
