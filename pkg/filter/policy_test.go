package filter

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"tableflip.dev/todo/pkg/settings"
	"tableflip.dev/todo/pkg/task"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func openSettings(t *testing.T) *settings.Settings {
	t.Helper()
	s, err := settings.Open(filepath.Join(t.TempDir(), settings.FileName))
	if err != nil {
		t.Fatalf("open settings: %v", err)
	}
	return s
}

func TestParsePreference(t *testing.T) {
	tests := []struct {
		raw     string
		want    Preference
		wantErr bool
	}{
		{raw: "All", want: All},
		{raw: "open", want: Open},
		{raw: " Done ", want: Done},
		{raw: "Completed", want: All, wantErr: true},
		{raw: "", want: All, wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParsePreference(tc.raw)
		if got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.raw, tc.want, got)
		}
		if tc.wantErr != errors.Is(err, ErrUnknownPreference) {
			t.Fatalf("%q: unexpected error %v", tc.raw, err)
		}
	}
}

func TestPreferenceNextCycles(t *testing.T) {
	p := All
	seen := []Preference{p}
	for i := 0; i < 3; i++ {
		p = p.Next()
		seen = append(seen, p)
	}
	want := []Preference{All, Open, Done, All}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}
}

func TestPolicyReadsSettings(t *testing.T) {
	s := openSettings(t)
	p := NewPolicy(settings.Static{S: s}, quietLog())
	if p.CurrentPredicate() != nil {
		t.Fatalf("expected nil predicate for default All")
	}

	var got []Preference
	p.OnChange(func(pref Preference) { got = append(got, pref) })

	if err := p.SetPreference(Open); err != nil {
		t.Fatalf("set: %v", err)
	}
	pred := p.CurrentPredicate()
	if pred == nil || !pred(task.Task{}) || pred(task.Task{Completed: true}) {
		t.Fatalf("expected Open predicate")
	}
	if s.String(settings.Filter) != "Open" {
		t.Fatalf("preference not persisted")
	}

	// Changes made directly in the settings store reach the policy too.
	if err := s.Set(settings.Filter, "Done"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(got) != 2 || got[0] != Open || got[1] != Done {
		t.Fatalf("unexpected notifications %v", got)
	}

	p.Close()
	if err := s.Set(settings.Filter, "All"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("closed policy still notified")
	}
}

func TestPolicyFallsBackOnStaleValue(t *testing.T) {
	s := openSettings(t)
	if err := s.Set(settings.Filter, "Scheduled"); err != nil {
		t.Fatalf("set: %v", err)
	}
	p := NewPolicy(settings.Static{S: s}, quietLog())
	if p.Preference() != All || p.CurrentPredicate() != nil {
		t.Fatalf("expected All for unknown stored value")
	}
}

func TestPolicyWithoutSettings(t *testing.T) {
	p := NewPolicy(settings.Missing{}, quietLog())
	if p.Preference() != All {
		t.Fatalf("expected All default")
	}
	var got []Preference
	p.OnChange(func(pref Preference) { got = append(got, pref) })

	err := p.SetPreference(Done)
	if !errors.Is(err, settings.ErrSchemaMissing) {
		t.Fatalf("expected ErrSchemaMissing, got %v", err)
	}
	if p.Preference() != Done {
		t.Fatalf("expected in-memory Done")
	}
	if len(got) != 1 || got[0] != Done {
		t.Fatalf("expected one notification, got %v", got)
	}
}
