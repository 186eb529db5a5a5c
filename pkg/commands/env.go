package commands

import (
	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/logging"
	"tableflip.dev/todo/pkg/store"
)

// openEnv loads config and opens the data and settings stores. Notices are
// logged; the CLI keeps going in memory when a store is unavailable.
func openEnv() (*app.Env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.For("cli")
	env := app.NewEnv(cfg, log)
	for _, n := range env.Notices {
		log.Warn(n)
	}
	return env, nil
}

// openService wraps a freshly loaded session. Saves wait at most the
// configured close-timeout. The returned close function releases the session
// and the env.
func openService() (*app.Service, *app.Env, func(), error) {
	env, err := openEnv()
	if err != nil {
		return nil, nil, nil, err
	}
	seen := len(env.Notices)
	svc := app.NewService(env.OpenSession(), app.WithSaveTimeout(env.Config.CloseTimeout()))
	for _, n := range env.Notices[seen:] {
		env.Log.Warn(n)
	}
	return svc, env, func() {
		svc.Close()
		env.Close()
	}, nil
}
