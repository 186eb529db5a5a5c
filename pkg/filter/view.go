package filter

import (
	"fmt"

	"tableflip.dev/todo/pkg/task"
)

// View is a live filtered projection of a task.List. It keeps source order and
// follows source mutations until Close is called.
type View struct {
	source *task.List
	pred   Predicate

	// members holds source indexes of visible tasks, ascending.
	members []int

	sub    task.SubscriptionID
	closed bool

	nextID    int
	listeners map[int]func(ViewChange)
}

// ViewChange is delivered to view subscribers whenever membership or a
// visible task changed.
type ViewChange struct {
	// Previous and Count are the visible counts before and after.
	Previous int
	Count    int
	// Source is the list change that caused this update, if any.
	Source *task.Change
}

// Apply builds a live view of list filtered by pred. A nil pred shows all.
func Apply(pred Predicate, list *task.List) *View {
	v := &View{source: list, pred: pred}
	v.rebuild()
	v.sub = list.Subscribe(v.onSource)
	return v
}

// Len returns the number of visible tasks.
func (v *View) Len() int {
	return len(v.members)
}

// Items returns the visible tasks in source order.
func (v *View) Items() []task.Task {
	out := make([]task.Task, 0, len(v.members))
	for _, idx := range v.members {
		t, err := v.source.At(idx)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

// At returns the i-th visible task.
func (v *View) At(i int) (task.Task, error) {
	src, err := v.SourceIndex(i)
	if err != nil {
		return task.Task{}, err
	}
	return v.source.At(src)
}

// SourceIndex maps a view position to the index in the source list.
func (v *View) SourceIndex(i int) (int, error) {
	if i < 0 || i >= len(v.members) {
		return -1, fmt.Errorf("%w: view position %d (len %d)", task.ErrOutOfRange, i, len(v.members))
	}
	return v.members[i], nil
}

// Source returns the list this view follows.
func (v *View) Source() *task.List {
	return v.source
}

// SetPredicate swaps the predicate in place. The view keeps its identity and
// subscribers; only membership is recomputed.
func (v *View) SetPredicate(pred Predicate) {
	prev := len(v.members)
	v.pred = pred
	v.rebuild()
	v.emit(ViewChange{Previous: prev, Count: len(v.members)})
}

// Subscribe registers fn for view changes.
func (v *View) Subscribe(fn func(ViewChange)) int {
	if v.listeners == nil {
		v.listeners = make(map[int]func(ViewChange))
	}
	v.nextID++
	v.listeners[v.nextID] = fn
	return v.nextID
}

// Unsubscribe removes a view subscriber.
func (v *View) Unsubscribe(id int) {
	delete(v.listeners, id)
}

// Close detaches the view from its source. A closed view no longer changes.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.source.Unsubscribe(v.sub)
	v.listeners = nil
}

// Closed reports whether Close was called.
func (v *View) Closed() bool {
	return v.closed
}

func (v *View) rebuild() {
	items := v.source.Items()
	members := make([]int, 0, len(items))
	for i, t := range items {
		if Matches(v.pred, t) {
			members = append(members, i)
		}
	}
	v.members = members
}

// onSource patches membership incrementally for the single-index change.
func (v *View) onSource(c task.Change) {
	prev := len(v.members)
	pos, present := v.position(c.Index)

	switch c.Kind {
	case task.Inserted:
		v.shift(pos, 1)
		if Matches(v.pred, c.Task) {
			v.insertAt(pos, c.Index)
		}
	case task.Removed:
		if present {
			v.members = append(v.members[:pos], v.members[pos+1:]...)
		}
		v.shift(pos, -1)
	case task.Updated:
		visible := Matches(v.pred, c.Task)
		switch {
		case visible && !present:
			v.insertAt(pos, c.Index)
		case !visible && present:
			v.members = append(v.members[:pos], v.members[pos+1:]...)
		}
	}

	change := c
	v.emit(ViewChange{Previous: prev, Count: len(v.members), Source: &change})
}

// position returns where source index idx sits (or would sit) in members.
func (v *View) position(idx int) (int, bool) {
	lo, hi := 0, len(v.members)
	for lo < hi {
		mid := (lo + hi) / 2
		if v.members[mid] < idx {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(v.members) && v.members[lo] == idx
}

// shift adjusts source indexes at or after members[from].
func (v *View) shift(from, delta int) {
	for i := from; i < len(v.members); i++ {
		v.members[i] += delta
	}
}

func (v *View) insertAt(pos, idx int) {
	v.members = append(v.members, 0)
	copy(v.members[pos+1:], v.members[pos:])
	v.members[pos] = idx
}

func (v *View) emit(c ViewChange) {
	for _, fn := range v.listeners {
		fn(c)
	}
}
