package app

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"tableflip.dev/todo/pkg/collection"
	"tableflip.dev/todo/pkg/filter"
	"tableflip.dev/todo/pkg/store"
	"tableflip.dev/todo/pkg/task"
)

var (
	// ErrNoCollection is returned by task operations when nothing is selected.
	ErrNoCollection = errors.New("app: no collection selected")
	// ErrSaveInProgress is returned by BeginSave while a job is outstanding.
	ErrSaveInProgress = errors.New("app: save already in progress")
	// ErrNoPersistence means the session runs in memory only.
	ErrNoPersistence = errors.New("app: no persistence configured")
)

// Option configures a Session.
type Option func(*Session)

// WithPolicy sets the filter policy. Without one the session filters with an
// in-memory policy.
func WithPolicy(p *filter.Policy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

// WithLogger sets the session logger.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Session) {
		s.log = log
	}
}

// Session owns the collection store, the selected collection and its live
// filtered view. It is not safe for concurrent use; all calls must come from
// the goroutine that owns the UI or command. Saves are the exception: the job
// returned by BeginSave may run anywhere.
type Session struct {
	store   *collection.Store
	persist store.Persistence
	policy  *filter.Policy
	log     *logrus.Entry

	storeSub  int
	policySub int

	active  int
	view    *filter.View
	viewSub int

	savedRevision uint64
	saving        bool
	closePending  bool
	abandoned     *abandonedSave

	nextID    int
	listeners map[int]func(Event)
}

// Open loads the store through p and returns a session bound to it. A nil p
// runs the session in memory. A load failure is returned together with a
// usable, empty session; callers should surface it as a notice.
func Open(p store.Persistence, opts ...Option) (*Session, error) {
	if p == nil {
		return New(collection.NewStore(), nil, opts...), nil
	}
	st, err := loadStore(p)
	if err != nil {
		return New(collection.NewStore(), p, opts...), err
	}
	return New(st, p, opts...), nil
}

func loadStore(p store.Persistence) (*collection.Store, error) {
	records, err := p.Load()
	if err != nil {
		return nil, err
	}
	return collection.FromRecords(records), nil
}

// New wraps st. The first collection, if any, is selected.
func New(st *collection.Store, p store.Persistence, opts ...Option) *Session {
	s := &Session{
		persist: p,
		active:  -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}
	if s.policy == nil {
		s.policy = filter.NewPolicy(nil, s.log)
	}
	s.policySub = s.policy.OnChange(s.onPreference)
	s.attach(st)
	return s
}

func (s *Session) attach(st *collection.Store) {
	s.store = st
	s.storeSub = st.Subscribe(s.onStore)
	s.savedRevision = st.Revision()
	if st.Len() > 0 {
		_ = s.Select(0)
	}
}

func (s *Session) detach() {
	s.unbind()
	s.active = -1
	if s.store != nil {
		s.store.Unsubscribe(s.storeSub)
	}
}

// Close releases subscriptions held on the store, the view and the policy.
func (s *Session) Close() {
	s.detach()
	s.policy.RemoveOnChange(s.policySub)
}

// Store returns the collection store.
func (s *Session) Store() *collection.Store {
	return s.store
}

// Persistent reports whether saves reach disk.
func (s *Session) Persistent() bool {
	return s.persist != nil
}

// Active returns the selected collection index, or -1.
func (s *Session) Active() int {
	return s.active
}

// ActiveCollection returns the selected collection or nil.
func (s *Session) ActiveCollection() *collection.Collection {
	if s.active < 0 {
		return nil
	}
	c, err := s.store.At(s.active)
	if err != nil {
		return nil
	}
	return c
}

// View returns the live view of the selected collection, or nil.
func (s *Session) View() *filter.View {
	return s.view
}

// TaskListVisible reports whether the selected collection has visible rows.
func (s *Session) TaskListVisible() bool {
	return s.view != nil && s.view.Len() > 0
}

// Select makes collection i active. The previous view is unbound from its
// list before the new one is built, so later edits to the old collection
// never reach the new view.
func (s *Session) Select(i int) error {
	c, err := s.store.At(i)
	if err != nil {
		return err
	}
	s.unbind()
	s.active = i
	s.view = filter.Apply(s.policy.CurrentPredicate(), c.Tasks)
	s.viewSub = s.view.Subscribe(s.onView)
	s.log.WithField("collection", c.Title).Debug("collection selected")
	s.emit(Event{Type: EventViewChanged})
	return nil
}

func (s *Session) unbind() {
	if s.view == nil {
		return
	}
	s.view.Unsubscribe(s.viewSub)
	s.view.Close()
	s.view = nil
}

// Preference returns the active filter preference.
func (s *Session) Preference() filter.Preference {
	return s.policy.Preference()
}

// SetPreference changes the filter. The current view is re-filtered in place.
// A settings.ErrSchemaMissing error means the choice only lasts for this run.
func (s *Session) SetPreference(p filter.Preference) error {
	return s.policy.SetPreference(p)
}

// CyclePreference advances All, Open, Done and back.
func (s *Session) CyclePreference() error {
	return s.SetPreference(s.Preference().Next())
}

// NewCollection adds a collection titled title and selects it.
func (s *Session) NewCollection(title string) (int, error) {
	idx, err := s.store.NewCollection(title)
	if err != nil {
		return -1, err
	}
	if err := s.Select(idx); err != nil {
		return -1, err
	}
	return idx, nil
}

// AddTask appends an open task to the selected collection and returns its
// index in the collection.
func (s *Session) AddTask(title string) (int, error) {
	c := s.ActiveCollection()
	if c == nil {
		return -1, ErrNoCollection
	}
	return c.Tasks.Append(task.New(title)), nil
}

// ToggleTask flips the completed flag of the task at view position i.
func (s *Session) ToggleTask(i int) error {
	list, src, err := s.resolve(i)
	if err != nil {
		return err
	}
	return list.Toggle(src)
}

// SetTaskCompleted sets the completed flag of the task at view position i.
func (s *Session) SetTaskCompleted(i int, completed bool) error {
	list, src, err := s.resolve(i)
	if err != nil {
		return err
	}
	return list.SetCompleted(src, completed)
}

// RenameTask retitles the task at view position i.
func (s *Session) RenameTask(i int, title string) error {
	list, src, err := s.resolve(i)
	if err != nil {
		return err
	}
	return list.SetTitle(src, title)
}

// RemoveTask deletes the task at view position i.
func (s *Session) RemoveTask(i int) (task.Task, error) {
	list, src, err := s.resolve(i)
	if err != nil {
		return task.Task{}, err
	}
	return list.Remove(src)
}

// RemoveDoneTasks deletes every completed task of the selected collection and
// returns how many went.
func (s *Session) RemoveDoneTasks() (int, error) {
	c := s.ActiveCollection()
	if c == nil {
		return 0, ErrNoCollection
	}
	n := c.Tasks.RemoveCompleted()
	if n > 0 {
		s.log.WithField("collection", c.Title).WithField("removed", n).Info("removed done tasks")
	}
	return n, nil
}

func (s *Session) resolve(i int) (*task.List, int, error) {
	if s.view == nil {
		return nil, -1, ErrNoCollection
	}
	src, err := s.view.SourceIndex(i)
	if err != nil {
		return nil, -1, err
	}
	return s.view.Source(), src, nil
}

// Replace swaps in st, for example after another process rewrote the data
// file. The selection is kept by index when it still exists.
func (s *Session) Replace(st *collection.Store) {
	prev := s.active
	s.detach()
	s.attach(st)
	if prev > 0 && prev < st.Len() {
		_ = s.Select(prev)
	}
	if st.Len() == 0 {
		s.emit(Event{Type: EventViewChanged})
	}
	s.emit(Event{Type: EventCollectionsChanged})
}

// Reload re-reads the data file and replaces the store. Unsaved changes are
// lost, so callers should only reload a clean session.
func (s *Session) Reload() error {
	if s.persist == nil {
		return ErrNoPersistence
	}
	st, err := loadStore(s.persist)
	if err != nil {
		return err
	}
	s.Replace(st)
	return nil
}

// Notify posts a notice to subscribers.
func (s *Session) Notify(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.log.Warn(msg)
	s.emit(Event{Type: EventNotice, Message: msg})
}

// Subscribe registers fn for session events and returns an id for
// Unsubscribe.
func (s *Session) Subscribe(fn func(Event)) int {
	if s.listeners == nil {
		s.listeners = make(map[int]func(Event))
	}
	s.nextID++
	s.listeners[s.nextID] = fn
	return s.nextID
}

// Unsubscribe removes a session subscriber.
func (s *Session) Unsubscribe(id int) {
	delete(s.listeners, id)
}

func (s *Session) onView(filter.ViewChange) {
	s.emit(Event{Type: EventViewChanged})
}

func (s *Session) onStore(collection.Event) {
	s.emit(Event{Type: EventCollectionsChanged})
}

func (s *Session) onPreference(p filter.Preference) {
	if s.view != nil {
		// The view announces its own membership change.
		s.view.SetPredicate(filter.PredicateFor(p))
	}
	s.emit(Event{Type: EventFilterChanged, Message: string(p)})
}

func (s *Session) emit(ev Event) {
	ev.Visible = s.TaskListVisible()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := s.listeners[id]; ok {
			fn(ev)
		}
	}
}
