package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("TODO_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "debug")
	if got := levelFromEnv(); got != logrus.DebugLevel {
		t.Fatalf("expected debug from LOG_LEVEL, got %s", got)
	}
	t.Setenv("TODO_LOG_LEVEL", "error")
	if got := levelFromEnv(); got != logrus.ErrorLevel {
		t.Fatalf("expected TODO_LOG_LEVEL to win, got %s", got)
	}
	t.Setenv("TODO_LOG_LEVEL", "nonsense")
	t.Setenv("LOG_LEVEL", "")
	if got := levelFromEnv(); got != logrus.WarnLevel {
		t.Fatalf("expected warn default, got %s", got)
	}
}

func TestForTagsComponent(t *testing.T) {
	t.Setenv("TODO_LOG_LEVEL", "info")
	var buf bytes.Buffer
	Init(&buf)
	For("store").Info("saved")
	if out := buf.String(); !strings.Contains(out, "component=store") || !strings.Contains(out, "saved") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestToFileWritesJSON(t *testing.T) {
	t.Setenv("TODO_LOG_LEVEL", "info")
	dir := t.TempDir()
	closeFn, err := ToFile(dir, "todo.log")
	if err != nil {
		t.Fatalf("to file: %v", err)
	}
	For("tui").Info("started")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "todo.log"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"message":"started"`) {
		t.Fatalf("expected JSON log line, got %s", data)
	}
}
