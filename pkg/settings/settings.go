// Package settings persists user interface preferences in a YAML file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Keys understood by the settings store.
const (
	Filter               = "filter"
	WindowWidth          = "window-width"
	WindowHeight         = "window-height"
	IsMaximized          = "is-maximized"
	SidebarShow          = "sidebar-show"
	RightHanded          = "righthanded"
	ColorScheme          = "color-scheme"
	Autosave             = "autosave"
	AutosaveIntervalSecs = "autosave-interval-secs"
)

// Color schemes accepted for ColorScheme.
const (
	SchemeDefault    = "default"
	SchemeForceLight = "force-light"
	SchemeForceDark  = "force-dark"
)

// FileName is the settings file inside the per-app config directory.
const FileName = "settings.yaml"

// ErrSchemaMissing is returned when no settings store is available.
var ErrSchemaMissing = errors.New("settings: schema not found")

func defaults() map[string]interface{} {
	return map[string]interface{}{
		Filter:               "All",
		WindowWidth:          960,
		WindowHeight:         720,
		IsMaximized:          false,
		SidebarShow:          true,
		RightHanded:          true,
		ColorScheme:          SchemeDefault,
		Autosave:             true,
		AutosaveIntervalSecs: 30,
	}
}

// DefaultPath returns <user-config-dir>/<appID>/settings.yaml.
func DefaultPath(appID string) (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("settings: resolve home: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appID, FileName), nil
}

// Settings is a viper-backed key/value store. Every Set is written through to
// disk and announced to subscribers of that key.
type Settings struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string

	nextID    int
	listeners map[string]map[int]func(key string)
}

// Open reads the settings file at path. A missing file is not an error; it is
// created on the first Set.
func Open(path string) (*Settings, error) {
	path, err := homedir.Expand(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMissing, err)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrSchemaMissing)
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: read %s: %v", ErrSchemaMissing, path, err)
	}
	return &Settings{
		v:         v,
		path:      path,
		listeners: make(map[string]map[int]func(string)),
	}, nil
}

// Path returns the backing file.
func (s *Settings) Path() string {
	return s.path
}

// String returns the string value of key.
func (s *Settings) String(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetString(key)
}

// Int returns the integer value of key.
func (s *Settings) Int(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetInt(key)
}

// Bool returns the boolean value of key.
func (s *Settings) Bool(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetBool(key)
}

// Set stores value under key, writes the file and notifies subscribers.
// Subscribers are called even when the write fails so in-memory state stays
// consistent; the write error is returned.
func (s *Settings) Set(key string, value interface{}) error {
	s.mu.Lock()
	s.v.Set(key, value)
	err := s.writeLocked()
	fns := s.listenersLocked(key)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
	return err
}

// Connect registers fn to run after key changes and returns an id for
// Disconnect.
func (s *Settings) Connect(key string, fn func(key string)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners[key] == nil {
		s.listeners[key] = make(map[int]func(string))
	}
	s.nextID++
	s.listeners[key][s.nextID] = fn
	return s.nextID
}

// Disconnect removes a subscriber registered with Connect.
func (s *Settings) Disconnect(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fns := range s.listeners {
		delete(fns, id)
	}
}

func (s *Settings) listenersLocked(key string) []func(string) {
	ids := make([]int, 0, len(s.listeners[key]))
	for id := range s.listeners[key] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(string), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[key][id])
	}
	return fns
}

func (s *Settings) writeLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("settings: ensure dir: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("settings: write %s: %w", s.path, err)
	}
	return nil
}

// Geometry is the saved window size.
type Geometry struct {
	Width     int
	Height    int
	Maximized bool
}

// Geometry returns the saved window geometry.
func (s *Settings) Geometry() Geometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Geometry{
		Width:     s.v.GetInt(WindowWidth),
		Height:    s.v.GetInt(WindowHeight),
		Maximized: s.v.GetBool(IsMaximized),
	}
}

// SaveGeometry stores the window geometry. Size is only recorded when the
// window is not maximized so restoring un-maximizes to the previous size.
func (s *Settings) SaveGeometry(g Geometry) error {
	s.mu.Lock()
	s.v.Set(IsMaximized, g.Maximized)
	if !g.Maximized {
		s.v.Set(WindowWidth, g.Width)
		s.v.Set(WindowHeight, g.Height)
	}
	err := s.writeLocked()
	s.mu.Unlock()
	return err
}
