package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/fleetdash/internal/logging"
	"github.com/five82/fleetdash/internal/table"
)

// Config captures the settings of the dashboard and its mock backend.
type Config struct {
	APIBind     string
	PollSeconds int
	Locale      string
	Log         logging.Config
	Server      Server
	// Views overrides the table configuration of a named vehicle view.
	Views map[string]table.Configuration
}

// Server configures the mock backend.
type Server struct {
	Bind     string `toml:"bind"`
	DBPath   string `toml:"db_path"`
	SeedPath string `toml:"seed_path"`
}

const (
	defaultConfigPath  = "~/.config/fleetdash/config.toml"
	defaultAPIBind     = "127.0.0.1:3000"
	defaultPollSeconds = 5
	defaultLocale      = "en-US"
	defaultLogFile     = "~/.local/share/fleetdash/fleetdash.log"
	defaultDBPath      = "~/.local/share/fleetdash/fleet.db"
	defaultLogLevel    = "info"
)

// DefaultPath returns the default config file path.
func DefaultPath() string { return defaultConfigPath }

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBind:     defaultAPIBind,
		PollSeconds: defaultPollSeconds,
		Locale:      defaultLocale,
		Log: logging.Config{
			Level:      defaultLogLevel,
			Format:     logging.FormatConsole,
			Filename:   mustExpand(defaultLogFile),
			MaxSize:    10,
			MaxBackups: 3,
			MaxDays:    7,
		},
		Server: Server{
			Bind:   defaultAPIBind,
			DBPath: mustExpand(defaultDBPath),
		},
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBind     string                         `toml:"api_bind"`
		PollSeconds int                            `toml:"poll_seconds"`
		Locale      string                         `toml:"locale"`
		Log         logging.Config                 `toml:"log"`
		Server      Server                         `toml:"server"`
		Views       map[string]table.Configuration `toml:"views"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIBind = orDefault(raw.APIBind, defaultAPIBind)
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}
	cfg.Locale = orDefault(raw.Locale, defaultLocale)

	cfg.Log.Level = orDefault(raw.Log.Level, cfg.Log.Level)
	cfg.Log.Format = orDefault(raw.Log.Format, cfg.Log.Format)
	if f := strings.TrimSpace(raw.Log.Filename); f != "" {
		cfg.Log.Filename = mustExpand(f)
	}
	if raw.Log.MaxSize > 0 {
		cfg.Log.MaxSize = raw.Log.MaxSize
	}
	if raw.Log.MaxBackups > 0 {
		cfg.Log.MaxBackups = raw.Log.MaxBackups
	}
	if raw.Log.MaxDays > 0 {
		cfg.Log.MaxDays = raw.Log.MaxDays
	}

	cfg.Server.Bind = orDefault(raw.Server.Bind, cfg.APIBind)
	if p := strings.TrimSpace(raw.Server.DBPath); p != "" {
		cfg.Server.DBPath = mustExpand(p)
	}
	if p := strings.TrimSpace(raw.Server.SeedPath); p != "" {
		cfg.Server.SeedPath = mustExpand(p)
	}

	cfg.Views = raw.Views
	return cfg, nil
}

// View returns the override for name when one is configured with columns,
// otherwise fallback.
func (c Config) View(name string, fallback table.Configuration) table.Configuration {
	if v, ok := c.Views[name]; ok && len(v.Columns) > 0 {
		return v
	}
	return fallback
}

func orDefault(v, def string) string {
	if trimmed := strings.TrimSpace(v); trimmed != "" {
		return trimmed
	}
	return def
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) { return expandPath(path) }

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
