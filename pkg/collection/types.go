// Package collection defines named task groups and the store that owns them.
package collection

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/todo/pkg/task"
)

// ErrEmptyTitle is returned when a new collection is created without a title.
var ErrEmptyTitle = errors.New("collection: title required")

// Collection is a named, ordered group of tasks.
type Collection struct {
	Title string
	Tasks *task.List
}

// New runs the "new collection" flow: the title is trimmed and must not be
// empty. Duplicate titles are allowed.
func New(title string) (*Collection, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return &Collection{Title: title, Tasks: task.NewList()}, nil
}

// Counts returns the number of open and completed tasks.
func (c *Collection) Counts() (open, done int) {
	for _, t := range c.Tasks.Items() {
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	return open, done
}

// EventType describes a store level change.
type EventType int

const (
	// CollectionAdded means a new collection was appended at Index.
	CollectionAdded EventType = iota
	// TasksChanged means the task list of the collection at Index changed.
	TasksChanged
)

// Event is delivered to Store subscribers.
type Event struct {
	Type   EventType
	Index  int
	Change task.Change
}

// Store is the ordered set of collections and the root of persisted state.
// Insertion order is the sidebar order. Like task.List it is owned by one
// goroutine.
type Store struct {
	collections []*Collection
	taskSubs    []task.SubscriptionID

	revision uint64

	nextID      int
	subscribers map[int]func(Event)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of collections.
func (s *Store) Len() int {
	return len(s.collections)
}

// At returns the collection at i.
func (s *Store) At(i int) (*Collection, error) {
	if i < 0 || i >= len(s.collections) {
		return nil, fmt.Errorf("collection: index %d out of range (len %d)", i, len(s.collections))
	}
	return s.collections[i], nil
}

// Collections returns the collections in order. The slice is a copy; the
// collections are shared.
func (s *Store) Collections() []*Collection {
	out := make([]*Collection, len(s.collections))
	copy(out, s.collections)
	return out
}

// Find returns the index of the first collection titled title, or -1.
func (s *Store) Find(title string) int {
	title = strings.TrimSpace(title)
	for i, c := range s.collections {
		if c.Title == title {
			return i
		}
	}
	for i, c := range s.collections {
		if strings.EqualFold(c.Title, title) {
			return i
		}
	}
	return -1
}

// Add appends c and returns its index. The store takes ownership of c.
func (s *Store) Add(c *Collection) int {
	if c.Tasks == nil {
		c.Tasks = task.NewList()
	}
	idx := len(s.collections)
	s.collections = append(s.collections, c)
	s.taskSubs = append(s.taskSubs, c.Tasks.Subscribe(func(change task.Change) {
		s.revision++
		s.emit(Event{Type: TasksChanged, Index: idx, Change: change})
	}))
	s.revision++
	s.emit(Event{Type: CollectionAdded, Index: idx})
	return idx
}

// NewCollection creates a collection through New and appends it.
func (s *Store) NewCollection(title string) (int, error) {
	c, err := New(title)
	if err != nil {
		return -1, err
	}
	return s.Add(c), nil
}

// Revision increases on every mutation of the store or any owned task list.
func (s *Store) Revision() uint64 {
	return s.revision
}

// Subscribe registers fn for store events and returns an id for Unsubscribe.
func (s *Store) Subscribe(fn func(Event)) int {
	if s.subscribers == nil {
		s.subscribers = make(map[int]func(Event))
	}
	s.nextID++
	s.subscribers[s.nextID] = fn
	return s.nextID
}

// Unsubscribe removes a store subscriber.
func (s *Store) Unsubscribe(id int) {
	delete(s.subscribers, id)
}

func (s *Store) emit(ev Event) {
	for _, fn := range s.subscribers {
		fn(ev)
	}
}

// Records returns a deep snapshot of the store suitable for serialization on
// another goroutine.
func (s *Store) Records() []Record {
	out := make([]Record, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, Record{Title: c.Title, Tasks: c.Tasks.Items()})
	}
	return out
}

// FromRecords rebuilds a store from persisted records, preserving order.
// Titles are taken as stored, without the New validation.
func FromRecords(records []Record) *Store {
	s := NewStore()
	for _, r := range records {
		s.Add(&Collection{Title: r.Title, Tasks: task.NewList(r.Tasks...)})
	}
	s.revision = 0
	return s
}
