package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"tableflip.dev/todo/pkg/collection"
	"tableflip.dev/todo/pkg/collection/viewmodel"
	"tableflip.dev/todo/pkg/filter"
	"tableflip.dev/todo/pkg/task"
)

// ErrCollectionNotFound is returned when a collection reference matches
// neither a title nor a position.
var ErrCollectionNotFound = errors.New("app: collection not found")

// Service provides high-level operations on collections and tasks for the CLI
// and the MCP server. It serialises access to a Session and saves after every
// change, so callers on different goroutines can share it.
type Service struct {
	mu          sync.Mutex
	session     *Session
	saveTimeout time.Duration
}

// DefaultSaveTimeout bounds how long a Service call waits for its save.
const DefaultSaveTimeout = 5 * time.Second

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithSaveTimeout bounds the wait for the save after each change. A
// non-positive d keeps DefaultSaveTimeout.
func WithSaveTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.saveTimeout = d
		}
	}
}

// NewService wraps sess. The service takes over the session; callers must not
// use sess directly afterwards.
func NewService(sess *Session, opts ...ServiceOption) *Service {
	s := &Service{session: sess, saveTimeout: DefaultSaveTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Row is a task together with its 1-based position in its collection.
// Numbers are stable under filtering, so a number printed by a filtered
// listing can be passed straight back.
type Row struct {
	Number int
	task.Task
}

// Collections returns a summary per collection in store order.
func (s *Service) Collections(ctx context.Context) ([]viewmodel.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return viewmodel.Build(s.session.Store()), nil
}

// Tasks lists the tasks of the referenced collection that pass pref. An empty
// pref uses the stored filter preference. The preference applied is returned.
func (s *Service) Tasks(ctx context.Context, ref string, pref filter.Preference) (*collection.Collection, []Row, filter.Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.lookup(ref)
	if err != nil {
		return nil, nil, "", err
	}
	if pref == "" {
		pref = s.session.Preference()
	}
	view := filter.Apply(filter.PredicateFor(pref), c.Tasks)
	defer view.Close()

	rows := make([]Row, 0, view.Len())
	for i, t := range view.Items() {
		src, err := view.SourceIndex(i)
		if err != nil {
			return nil, nil, "", err
		}
		rows = append(rows, Row{Number: src + 1, Task: t})
	}
	return c, rows, pref, nil
}

// AddTask appends an open task to the referenced collection.
func (s *Service) AddTask(ctx context.Context, ref, title string) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title = strings.TrimSpace(title)
	if title == "" {
		return Row{}, errors.New("app: task title required")
	}
	c, _, err := s.lookup(ref)
	if err != nil {
		return Row{}, err
	}
	t := task.New(title)
	idx := c.Tasks.Append(t)
	return Row{Number: idx + 1, Task: t}, s.save(ctx)
}

// SetCompleted marks task number n of the referenced collection completed or
// open again.
func (s *Service) SetCompleted(ctx context.Context, ref string, n int, completed bool) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.lookup(ref)
	if err != nil {
		return Row{}, err
	}
	if err := c.Tasks.SetCompleted(n-1, completed); err != nil {
		return Row{}, err
	}
	t, _ := c.Tasks.At(n - 1)
	return Row{Number: n, Task: t}, s.save(ctx)
}

// RenameTask retitles task number n of the referenced collection.
func (s *Service) RenameTask(ctx context.Context, ref string, n int, title string) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.lookup(ref)
	if err != nil {
		return Row{}, err
	}
	if err := c.Tasks.SetTitle(n-1, title); err != nil {
		return Row{}, err
	}
	t, _ := c.Tasks.At(n - 1)
	return Row{Number: n, Task: t}, s.save(ctx)
}

// RemoveTask deletes task number n of the referenced collection.
func (s *Service) RemoveTask(ctx context.Context, ref string, n int) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.lookup(ref)
	if err != nil {
		return task.Task{}, err
	}
	t, err := c.Tasks.Remove(n - 1)
	if err != nil {
		return task.Task{}, err
	}
	return t, s.save(ctx)
}

// RemoveDone deletes the completed tasks of the referenced collection.
func (s *Service) RemoveDone(ctx context.Context, ref string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, err := s.lookup(ref)
	if err != nil {
		return 0, err
	}
	if err := s.session.Select(idx); err != nil {
		return 0, err
	}
	n, err := s.session.RemoveDoneTasks()
	if err != nil || n == 0 {
		return n, err
	}
	return n, s.save(ctx)
}

// CreateCollection adds a collection. Titles need not be unique.
func (s *Service) CreateCollection(ctx context.Context, title string) (viewmodel.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.session.NewCollection(title)
	if err != nil {
		return viewmodel.Summary{}, err
	}
	sums := viewmodel.Build(s.session.Store())
	return sums[idx], s.save(ctx)
}

// Preference returns the stored filter preference.
func (s *Service) Preference(ctx context.Context) filter.Preference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Preference()
}

// SetPreference stores the filter preference.
func (s *Service) SetPreference(ctx context.Context, p filter.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.SetPreference(p)
}

// Persistent reports whether changes reach disk.
func (s *Service) Persistent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Persistent()
}

// Close releases the session.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Close()
}

// lookup resolves ref as a title first, then as a 1-based position, which
// lets callers reach collections that share a title.
func (s *Service) lookup(ref string) (*collection.Collection, int, error) {
	st := s.session.Store()
	idx := st.Find(ref)
	if idx < 0 {
		n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(ref), "#"))
		if err != nil || n < 1 || n > st.Len() {
			return nil, -1, fmt.Errorf("%w: %q", ErrCollectionNotFound, ref)
		}
		idx = n - 1
	}
	c, err := st.At(idx)
	if err != nil {
		return nil, -1, err
	}
	return c, idx, nil
}

func (s *Service) save(ctx context.Context) error {
	if !s.session.Persistent() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()
	return s.session.SaveNow(ctx)
}
