package app

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/todo/pkg/collection"
	"tableflip.dev/todo/pkg/settings"
	"tableflip.dev/todo/pkg/store"
)

// DefaultAutosaveInterval is used when the settings store is unavailable or
// holds a non-positive interval.
const DefaultAutosaveInterval = 30 * time.Second

// SaveJob is a snapshot of the store waiting to be written. Run may be called
// from any goroutine; the result goes back through Session.FinishSave.
type SaveJob struct {
	Records  []collection.Record
	Revision uint64

	persist store.Persistence
}

// Run writes the snapshot.
func (j *SaveJob) Run() error {
	return j.persist.Save(j.Records)
}

// Dirty reports whether the store changed since the last successful save.
func (s *Session) Dirty() bool {
	return s.store.Revision() != s.savedRevision
}

// abandonedSave is a SaveNow job whose caller stopped waiting.
type abandonedSave struct {
	job  *SaveJob
	done <-chan error
}

// settle finishes an abandoned save once its write has returned.
func (s *Session) settle() {
	if s.abandoned == nil {
		return
	}
	select {
	case err := <-s.abandoned.done:
		job := s.abandoned.job
		s.abandoned = nil
		s.FinishSave(job, err)
	default:
	}
}

// Saving reports whether a save job is outstanding.
func (s *Session) Saving() bool {
	s.settle()
	return s.saving
}

// BeginSave snapshots the store and marks a save as in flight.
func (s *Session) BeginSave() (*SaveJob, error) {
	if s.persist == nil {
		return nil, ErrNoPersistence
	}
	s.settle()
	if s.saving {
		return nil, ErrSaveInProgress
	}
	s.saving = true
	job := &SaveJob{
		Records:  s.store.Records(),
		Revision: s.store.Revision(),
		persist:  s.persist,
	}
	s.emit(Event{Type: EventSaveStarted})
	return job, nil
}

// FinishSave records the outcome of job. closeNow is true when a close was
// requested while the job ran and the job succeeded; a failed save cancels
// the pending close.
func (s *Session) FinishSave(job *SaveJob, err error) (closeNow bool) {
	s.saving = false
	log := s.log.WithField("path", s.persist.Path())
	if err != nil {
		log.WithError(err).Error("save failed")
	} else {
		s.savedRevision = job.Revision
		log.WithField("collections", len(job.Records)).Debug("saved")
	}
	s.emit(Event{Type: EventSaveFinished, Err: err})
	if s.closePending {
		s.closePending = false
		return err == nil
	}
	return false
}

// RequestClose returns true when the caller may shut down now. While a save
// runs it returns false and the following FinishSave reports closeNow.
func (s *Session) RequestClose() bool {
	if s.Saving() {
		s.closePending = true
		return false
	}
	return true
}

// ClosePending reports whether a close is waiting on a save.
func (s *Session) ClosePending() bool {
	return s.closePending
}

// AutosaveDue reports whether a periodic tick should start a save.
func (s *Session) AutosaveDue() bool {
	return s.persist != nil && !s.Saving() && s.Dirty()
}

// SaveNow saves on a worker goroutine and waits for it or ctx. On timeout the
// write keeps running; the session finishes it on a later call once it has
// returned, and a later SaveNow first waits for it.
func (s *Session) SaveNow(ctx context.Context) error {
	if a := s.abandoned; a != nil {
		select {
		case err := <-a.done:
			s.abandoned = nil
			s.FinishSave(a.job, err)
		case <-ctx.Done():
			return fmt.Errorf("app: waiting for previous save: %w", ctx.Err())
		}
	}
	job, err := s.BeginSave()
	if err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- job.Run()
	}()
	select {
	case err := <-done:
		s.FinishSave(job, err)
		return err
	case <-ctx.Done():
		s.abandoned = &abandonedSave{job: job, done: done}
		return fmt.Errorf("app: waiting for save: %w", ctx.Err())
	}
}

// AutosaveInterval reads the autosave settings. ok is false when autosave is
// switched off.
func AutosaveInterval(p settings.Provider) (interval time.Duration, ok bool) {
	if p == nil {
		return DefaultAutosaveInterval, true
	}
	st, found := p.Settings()
	if !found {
		return DefaultAutosaveInterval, true
	}
	if !st.Bool(settings.Autosave) {
		return 0, false
	}
	secs := st.Int(settings.AutosaveIntervalSecs)
	if secs <= 0 {
		return DefaultAutosaveInterval, true
	}
	return time.Duration(secs) * time.Second, true
}
