package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tableflip.dev/todo/pkg/collection"
	"tableflip.dev/todo/pkg/filter"
	"tableflip.dev/todo/pkg/settings"
	"tableflip.dev/todo/pkg/store"
	"tableflip.dev/todo/pkg/task"
)

func openSession(t *testing.T, mp *memoryPersistence, opts ...Option) *Session {
	t.Helper()
	sess, err := Open(mp, opts...)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess
}

func titles(v *filter.View) []string {
	var out []string
	for _, t := range v.Items() {
		out = append(out, t.Title)
	}
	return out
}

func TestHomeScenario(t *testing.T) {
	sess := openSession(t, newMemoryPersistence(homeRecords()...))

	if sess.Active() != 0 || sess.ActiveCollection().Title != "Home" {
		t.Fatalf("expected Home selected, got %d", sess.Active())
	}

	for _, tc := range []struct {
		pref filter.Preference
		want []string
	}{
		{filter.All, []string{"Buy milk", "Pay bills"}},
		{filter.Open, []string{"Buy milk"}},
		{filter.Done, []string{"Pay bills"}},
	} {
		if err := sess.SetPreference(tc.pref); err != nil && !errors.Is(err, settings.ErrSchemaMissing) {
			t.Fatalf("set preference: %v", err)
		}
		if got := titles(sess.View()); fmt.Sprint(got) != fmt.Sprint(tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.pref, tc.want, got)
		}
	}
}

func TestSelectIsolatesPreviousCollection(t *testing.T) {
	sess := openSession(t, newMemoryPersistence(homeRecords()...))

	home := sess.ActiveCollection()
	old := sess.View()
	if err := sess.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if !old.Closed() {
		t.Fatal("expected previous view closed")
	}
	// Only the store's own forwarding subscription remains.
	if home.Tasks.Subscribers() != 1 {
		t.Fatalf("expected Home list unbound, %d subscribers left", home.Tasks.Subscribers())
	}

	home.Tasks.Append(task.New("Late addition"))
	if sess.View().Len() != 0 {
		t.Fatalf("work view picked up Home change: %v", titles(sess.View()))
	}
	if sess.TaskListVisible() {
		t.Fatal("empty collection should hide the task list")
	}
}

func TestVisibilityFollowsMutations(t *testing.T) {
	sess := openSession(t, newMemoryPersistence(homeRecords()...))
	if err := sess.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}

	var seen []bool
	sess.Subscribe(func(ev Event) {
		if ev.Type == EventViewChanged {
			seen = append(seen, ev.Visible)
		}
	})

	if _, err := sess.AddTask("Write report"); err != nil {
		t.Fatalf("add: %v", err)
	}
	_ = sess.SetPreference(filter.Done)
	_ = sess.SetPreference(filter.All)
	if err := sess.ToggleTask(0); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := sess.RemoveDoneTasks(); err != nil {
		t.Fatalf("remove done: %v", err)
	}

	want := []bool{true, false, true, true, false}
	if fmt.Sprint(seen) != fmt.Sprint(want) {
		t.Fatalf("expected visibility %v, got %v", want, seen)
	}
}

func TestFilterChangeKeepsView(t *testing.T) {
	sess := openSession(t, newMemoryPersistence(homeRecords()...))
	v := sess.View()

	var filters []string
	sess.Subscribe(func(ev Event) {
		if ev.Type == EventFilterChanged {
			filters = append(filters, ev.Message)
		}
	})
	if err := sess.CyclePreference(); err != nil && !errors.Is(err, settings.ErrSchemaMissing) {
		t.Fatalf("cycle: %v", err)
	}
	if sess.View() != v {
		t.Fatal("filter change replaced the view")
	}
	if sess.Preference() != filter.Open || v.Len() != 1 {
		t.Fatalf("expected Open with one row, got %s %d", sess.Preference(), v.Len())
	}
	if fmt.Sprint(filters) != "[Open]" {
		t.Fatalf("unexpected filter events %v", filters)
	}
}

func TestTaskOperationsUseViewPositions(t *testing.T) {
	sess := openSession(t, newMemoryPersistence(homeRecords()...))
	_ = sess.SetPreference(filter.Done)

	// Position 0 of the Done view is "Pay bills" at source index 1.
	if err := sess.RenameTask(0, "Pay rent"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := sess.SetTaskCompleted(0, false); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if sess.View().Len() != 0 {
		t.Fatalf("expected reopened task to leave Done view")
	}
	items := sess.ActiveCollection().Tasks.Items()
	if items[1].Title != "Pay rent" || items[1].Completed {
		t.Fatalf("unexpected source task %+v", items[1])
	}
	if _, err := sess.RemoveTask(0); !errors.Is(err, task.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestOperationsWithoutSelection(t *testing.T) {
	sess := openSession(t, newMemoryPersistence())
	if _, err := sess.AddTask("x"); !errors.Is(err, ErrNoCollection) {
		t.Fatalf("expected ErrNoCollection, got %v", err)
	}
	if err := sess.ToggleTask(0); !errors.Is(err, ErrNoCollection) {
		t.Fatalf("expected ErrNoCollection, got %v", err)
	}
	if sess.TaskListVisible() {
		t.Fatal("nothing selected, nothing visible")
	}
	idx, err := sess.NewCollection("Inbox")
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	if idx != 0 || sess.Active() != 0 {
		t.Fatalf("expected new collection selected, got %d/%d", idx, sess.Active())
	}
}

func TestBeginSaveSnapshots(t *testing.T) {
	mp := newMemoryPersistence(homeRecords()...)
	sess := openSession(t, mp)

	if _, err := sess.AddTask("Call mum"); err != nil {
		t.Fatalf("add: %v", err)
	}
	job, err := sess.BeginSave()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := sess.BeginSave(); !errors.Is(err, ErrSaveInProgress) {
		t.Fatalf("expected ErrSaveInProgress, got %v", err)
	}

	// Later edits must not leak into the running job.
	if _, err := sess.AddTask("After snapshot"); err != nil {
		t.Fatalf("add: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- job.Run() }()
	if closeNow := sess.FinishSave(job, <-done); closeNow {
		t.Fatal("no close was requested")
	}

	records, _ := mp.snapshot()
	if got := len(records[0].Tasks); got != 3 {
		t.Fatalf("expected 3 tasks in snapshot, got %d", got)
	}
	if !sess.Dirty() {
		t.Fatal("edit after snapshot should leave the session dirty")
	}
}

func TestCloseWaitsForSave(t *testing.T) {
	mp := newMemoryPersistence(homeRecords()...)
	mp.gate = make(chan struct{})
	sess := openSession(t, mp)

	if _, err := sess.AddTask("pending"); err != nil {
		t.Fatalf("add: %v", err)
	}
	job, err := sess.BeginSave()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- job.Run() }()

	if sess.RequestClose() {
		t.Fatal("close must wait for the save")
	}
	if !sess.ClosePending() {
		t.Fatal("expected pending close")
	}

	close(mp.gate)
	if closeNow := sess.FinishSave(job, <-done); !closeNow {
		t.Fatal("expected close once the save finished")
	}
	if !sess.RequestClose() {
		t.Fatal("idle session should close immediately")
	}
}

func TestFailedSaveStaysDirty(t *testing.T) {
	mp := newMemoryPersistence(homeRecords()...)
	mp.saveErr = fmt.Errorf("%w: disk full", store.ErrSerialization)
	sess := openSession(t, mp)

	var finished []error
	sess.Subscribe(func(ev Event) {
		if ev.Type == EventSaveFinished {
			finished = append(finished, ev.Err)
		}
	})

	if _, err := sess.AddTask("x"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := sess.SaveNow(context.Background()); !errors.Is(err, store.ErrSerialization) {
		t.Fatalf("expected ErrSerialization, got %v", err)
	}
	if !sess.Dirty() || !sess.AutosaveDue() {
		t.Fatal("failed save should be retried by the next tick")
	}
	if len(finished) != 1 || !errors.Is(finished[0], store.ErrSerialization) {
		t.Fatalf("unexpected save events %v", finished)
	}
}

func TestAutosaveOnlyWhenChanged(t *testing.T) {
	mp := newMemoryPersistence(homeRecords()...)
	sess := openSession(t, mp)

	if sess.AutosaveDue() {
		t.Fatal("fresh session should be clean")
	}
	if err := sess.ToggleTask(0); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !sess.AutosaveDue() {
		t.Fatal("expected autosave after a change")
	}
	if err := sess.SaveNow(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if sess.AutosaveDue() {
		t.Fatal("expected clean session after save")
	}
	_, saves := mp.snapshot()
	if saves != 1 {
		t.Fatalf("expected 1 save, got %d", saves)
	}
}

func TestSaveNowRecoversAfterTimeout(t *testing.T) {
	mp := newMemoryPersistence(homeRecords()...)
	mp.gate = make(chan struct{})
	sess := openSession(t, mp)

	if _, err := sess.AddTask("slow"); err != nil {
		t.Fatalf("add: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := sess.SaveNow(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !sess.Saving() {
		t.Fatal("write is still running")
	}

	close(mp.gate)
	if _, err := sess.AddTask("after"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := sess.SaveNow(context.Background()); err != nil {
		t.Fatalf("save after the disk recovered: %v", err)
	}
	if sess.Saving() || sess.Dirty() {
		t.Fatal("expected a clean, idle session")
	}
	records, saves := mp.snapshot()
	if saves != 2 {
		t.Fatalf("expected 2 saves, got %d", saves)
	}
	if n := len(records[0].Tasks); n != 4 {
		t.Fatalf("expected 4 tasks on disk, got %d", n)
	}
}

func TestAbandonedSaveSettles(t *testing.T) {
	mp := newMemoryPersistence(homeRecords()...)
	mp.gate = make(chan struct{})
	sess := openSession(t, mp)

	var finished int
	sess.Subscribe(func(ev Event) {
		if ev.Type == EventSaveFinished {
			finished++
		}
	})

	if err := sess.ToggleTask(0); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := sess.SaveNow(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if sess.AutosaveDue() {
		t.Fatal("no autosave while the write is running")
	}

	close(mp.gate)
	deadline := time.Now().Add(2 * time.Second)
	for sess.Saving() {
		if time.Now().After(deadline) {
			t.Fatal("abandoned save never finished")
		}
		time.Sleep(time.Millisecond)
	}
	if sess.Dirty() || sess.AutosaveDue() {
		t.Fatal("the late write covered the change")
	}
	if finished != 1 {
		t.Fatalf("expected one save finished event, got %d", finished)
	}
}

func TestFailedSaveCancelsClose(t *testing.T) {
	mp := newMemoryPersistence(homeRecords()...)
	sess := openSession(t, mp)

	if _, err := sess.AddTask("pending"); err != nil {
		t.Fatalf("add: %v", err)
	}
	job, err := sess.BeginSave()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if sess.RequestClose() {
		t.Fatal("close must wait for the save")
	}
	if closeNow := sess.FinishSave(job, store.ErrSerialization); closeNow {
		t.Fatal("a failed save must not close")
	}
	if sess.ClosePending() || !sess.Dirty() {
		t.Fatal("expected the close cancelled and the edit kept")
	}
}

func TestOpenFallsBackToEmpty(t *testing.T) {
	mp := newMemoryPersistence()
	mp.loadErr = fmt.Errorf("%w: bad json", store.ErrDeserialization)

	sess, err := Open(mp)
	if !errors.Is(err, store.ErrDeserialization) {
		t.Fatalf("expected ErrDeserialization, got %v", err)
	}
	defer sess.Close()
	if sess.Store().Len() != 0 || sess.Active() != -1 {
		t.Fatalf("expected empty session, got %d collections", sess.Store().Len())
	}
	if sess.AutosaveDue() {
		t.Fatal("untouched fallback session must not overwrite the file")
	}
}

func TestInMemorySession(t *testing.T) {
	sess, err := Open(nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sess.Close()
	if _, err := sess.NewCollection("Scratch"); err != nil {
		t.Fatalf("new collection: %v", err)
	}
	if sess.AutosaveDue() {
		t.Fatal("in-memory session never autosaves")
	}
	if _, err := sess.BeginSave(); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
}

func TestReloadKeepsSelection(t *testing.T) {
	mp := newMemoryPersistence(homeRecords()...)
	sess := openSession(t, mp)
	if err := sess.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}

	mp.records = append(cloneRecords(homeRecords()), collection.Record{Title: "Garden"})
	mp.records[1].Tasks = []task.Task{{Title: "from elsewhere"}}

	var collectionsChanged bool
	sess.Subscribe(func(ev Event) {
		if ev.Type == EventCollectionsChanged {
			collectionsChanged = true
		}
	})
	if err := sess.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sess.Active() != 1 || sess.Store().Len() != 3 {
		t.Fatalf("unexpected state after reload: active %d len %d", sess.Active(), sess.Store().Len())
	}
	if got := titles(sess.View()); fmt.Sprint(got) != "[from elsewhere]" {
		t.Fatalf("unexpected view %v", got)
	}
	if !collectionsChanged || sess.Dirty() {
		t.Fatal("reload should announce collections and leave the session clean")
	}
}

func TestNotify(t *testing.T) {
	sess := openSession(t, newMemoryPersistence())
	var got []Event
	sess.Subscribe(func(ev Event) { got = append(got, ev) })
	sess.Notify("settings unavailable: %s", "read-only")
	if len(got) != 1 || got[0].Type != EventNotice || got[0].Message != "settings unavailable: read-only" {
		t.Fatalf("unexpected events %+v", got)
	}
}

func TestAutosaveInterval(t *testing.T) {
	if d, ok := AutosaveInterval(settings.Missing{}); !ok || d != DefaultAutosaveInterval {
		t.Fatalf("expected default interval, got %v %v", d, ok)
	}

	st, err := settings.Open(t.TempDir() + "/settings.yaml")
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	p := settings.Static{S: st}
	if d, ok := AutosaveInterval(p); !ok || d != 30*time.Second {
		t.Fatalf("expected 30s, got %v %v", d, ok)
	}
	_ = st.Set(settings.AutosaveIntervalSecs, 5)
	if d, _ := AutosaveInterval(p); d != 5*time.Second {
		t.Fatalf("expected 5s, got %v", d)
	}
	_ = st.Set(settings.Autosave, false)
	if _, ok := AutosaveInterval(p); ok {
		t.Fatal("expected autosave disabled")
	}
}
