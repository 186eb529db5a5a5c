package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// DefaultAppID names the per-user data and config directories.
const DefaultAppID = "com.github.linruohan.mytool"

// Config locates the data directory.
type Config interface {
	BasePath() string
	AppID() string
	CloseTimeout() time.Duration
}

// LoadConfig reads .todo.yaml from TODO_CONFIG_PATH or the working directory,
// with TODO_* environment overrides.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "")
	viper.SetDefault("app-id", DefaultAppID)
	viper.SetDefault("close-timeout", "5s")
	viper.SetConfigName(".todo") // .yaml is implicit
	viper.SetEnvPrefix("TODO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if override := os.Getenv("TODO_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	return &fileConfig{
		Path:    viper.GetString("path"),
		ID:      viper.GetString("app-id"),
		Timeout: viper.GetDuration("close-timeout"),
	}, nil
}

// StaticConfig is a fixed Config, handy for tests and embedding.
type StaticConfig struct {
	Path    string
	ID      string
	Timeout time.Duration
}

func (c StaticConfig) BasePath() string { return c.Path }

func (c StaticConfig) AppID() string {
	if c.ID == "" {
		return DefaultAppID
	}
	return c.ID
}

func (c StaticConfig) CloseTimeout() time.Duration { return c.Timeout }

type fileConfig struct {
	Path    string        `json:"path"`
	ID      string        `json:"app-id"`
	Timeout time.Duration `json:"close-timeout"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) AppID() string {
	if f.ID == "" {
		return DefaultAppID
	}
	return f.ID
}

func (f *fileConfig) CloseTimeout() time.Duration {
	return f.Timeout
}

// DataDir returns the per-user application data directory for appID:
// $XDG_DATA_HOME/<appID>, else ~/.local/share/<appID>.
func DataDir(appID string) (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("store: resolve home: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, appID), nil
}

// ResolveDir returns the directory the gateway should use for cfg: the
// configured path with ~ expanded, or DataDir.
func ResolveDir(cfg Config) (string, error) {
	if path := strings.TrimSpace(cfg.BasePath()); path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return "", fmt.Errorf("store: expand %q: %w", path, err)
		}
		return expanded, nil
	}
	return DataDir(cfg.AppID())
}
