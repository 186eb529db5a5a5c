package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"tableflip.dev/todo/pkg/filter"
	"tableflip.dev/todo/pkg/settings"
	"tableflip.dev/todo/pkg/store"
)

// Env holds the collaborators a front end needs: the data file gateway, the
// settings store and the filter policy. Failures to open either store do not
// stop the program; they are collected in Notices and the missing piece is
// replaced by an in-memory stand-in.
type Env struct {
	Config   store.Config
	Gateway  *store.Gateway
	Settings settings.Provider
	Policy   *filter.Policy
	Log      *logrus.Entry

	Notices []string
}

// NewEnv opens the data directory and settings store described by cfg.
func NewEnv(cfg store.Config, log *logrus.Entry) *Env {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	e := &Env{Config: cfg, Log: log}

	g, err := store.Open(cfg)
	if err != nil {
		log.WithError(err).Error("data directory unavailable")
		e.Notices = append(e.Notices, fmt.Sprintf("Changes will not be saved: %v", err))
	} else {
		e.Gateway = g
	}

	path, err := settings.DefaultPath(cfg.AppID())
	if err != nil {
		e.Settings = settings.Missing{}
		e.Notices = append(e.Notices, fmt.Sprintf("Preferences will not be saved: %v", err))
	} else if e.Settings, err = settings.Load(path, log.WithField("settings", path)); err != nil {
		e.Notices = append(e.Notices, fmt.Sprintf("Preferences will not be saved: %v", err))
	}

	e.Policy = filter.NewPolicy(e.Settings, log.WithField("component", "filter"))
	return e
}

// Persistence returns the gateway, or nil in memory mode.
func (e *Env) Persistence() store.Persistence {
	if e.Gateway == nil {
		return nil
	}
	return e.Gateway
}

// OpenSession loads the data file into a session using the env's policy. A
// load failure is added to Notices and an empty session is returned.
func (e *Env) OpenSession() *Session {
	sess, err := Open(e.Persistence(), WithPolicy(e.Policy), WithLogger(e.Log.WithField("component", "session")))
	if err != nil {
		e.Log.WithError(err).Error("could not load collections")
		e.Notices = append(e.Notices, fmt.Sprintf("Could not load collections: %v", err))
	}
	return sess
}

// Close releases the policy subscription on the settings store.
func (e *Env) Close() {
	e.Policy.Close()
}
