// Package logging configures the process logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. It starts as a text logger on stderr
// and is reconfigured by Init or ToFile.
var Logger = newLogger(os.Stderr, false)

func newLogger(out io.Writer, asJSON bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	if asJSON {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "ts",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	l.SetLevel(levelFromEnv())
	return l
}

// levelFromEnv reads TODO_LOG_LEVEL, then LOG_LEVEL. The default is warn so
// the CLI stays quiet.
func levelFromEnv() logrus.Level {
	for _, name := range []string{"TODO_LOG_LEVEL", "LOG_LEVEL"} {
		raw := strings.TrimSpace(os.Getenv(name))
		if raw == "" {
			continue
		}
		if lvl, err := logrus.ParseLevel(raw); err == nil {
			return lvl
		}
	}
	return logrus.WarnLevel
}

// Init resets Logger to a text logger writing to out.
func Init(out io.Writer) *logrus.Logger {
	Logger = newLogger(out, false)
	return Logger
}

// ToFile redirects Logger to a JSON log file in dir, used while a full screen
// UI owns the terminal. The returned close function restores stderr.
func ToFile(dir, name string) (func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	Logger = newLogger(f, true)
	return func() error {
		Logger = newLogger(os.Stderr, false)
		return f.Close()
	}, nil
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return Logger.WithField("component", component)
}
