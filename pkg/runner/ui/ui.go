package ui

import (
	"context"
	"errors"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/logging"
	teaui "tableflip.dev/todo/pkg/runner/tea"
	"tableflip.dev/todo/pkg/store"
)

// LogFile is written next to the data file while the UI owns the terminal.
const LogFile = "todo.log"

type UI struct {
	Config store.Config
}

func (d *UI) Do(ctx context.Context) error {
	if d.Config == nil {
		return errors.New("ui requires a config")
	}

	if dir, err := store.ResolveDir(d.Config); err == nil {
		restore, err := logging.ToFile(dir, LogFile)
		if err == nil {
			defer func() { _ = restore() }()
		} else {
			logging.For("ui").WithError(err).Warn("logging to stderr")
		}
	}

	log := logging.For("tui")
	env := app.NewEnv(d.Config, log)
	defer env.Close()
	sess := env.OpenSession()
	defer sess.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var watch <-chan store.Event
	if g := env.Gateway; g != nil {
		ch, err := g.Watch(ctx)
		if err != nil {
			log.WithError(err).Warn("not watching the data file")
		} else {
			watch = ch
		}
	}

	return teaui.Run(sess, teaui.Options{
		Settings:     env.Settings,
		Watch:        watch,
		CloseTimeout: d.Config.CloseTimeout(),
		Notices:      env.Notices,
		Log:          log,
	})
}
