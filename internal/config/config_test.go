package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/fleetdash/internal/table"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != defaultAPIBind {
		t.Fatalf("APIBind = %q, want %q", cfg.APIBind, defaultAPIBind)
	}
	if cfg.PollSeconds != defaultPollSeconds || cfg.Locale != defaultLocale {
		t.Fatalf("poll=%d locale=%q, want defaults", cfg.PollSeconds, cfg.Locale)
	}

	wantDB, err := expandPath(defaultDBPath)
	if err != nil {
		t.Fatalf("expandPath(defaultDBPath) returned error: %v", err)
	}
	if cfg.Server.DBPath != wantDB {
		t.Fatalf("DBPath = %q, want %q", cfg.Server.DBPath, wantDB)
	}
	if !strings.HasPrefix(cfg.Log.Filename, home) {
		t.Fatalf("log file = %q, want it under HOME %q", cfg.Log.Filename, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_bind = "  10.0.0.5:9999  "
poll_seconds = 12
locale = "de-DE"

[log]
level = "debug"
format = "json"
file = "  ~/logs/dash.log  "

[server]
db_path = "~/data/fleet.db"
seed_path = "~/seed/db.json"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != "10.0.0.5:9999" {
		t.Fatalf("APIBind = %q, want %q", cfg.APIBind, "10.0.0.5:9999")
	}
	if cfg.Server.Bind != "10.0.0.5:9999" {
		t.Fatalf("Server.Bind = %q, want it to follow api_bind", cfg.Server.Bind)
	}
	if cfg.PollSeconds != 12 || cfg.Locale != "de-DE" {
		t.Fatalf("poll=%d locale=%q", cfg.PollSeconds, cfg.Locale)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log = %#v", cfg.Log)
	}
	if cfg.Log.Filename != filepath.Join(home, "logs", "dash.log") {
		t.Fatalf("log file = %q", cfg.Log.Filename)
	}
	if cfg.Server.DBPath != filepath.Join(home, "data", "fleet.db") {
		t.Fatalf("DBPath = %q", cfg.Server.DBPath)
	}
	if cfg.Server.SeedPath != filepath.Join(home, "seed", "db.json") {
		t.Fatalf("SeedPath = %q", cfg.Server.SeedPath)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_bind = "   "
poll_seconds = 0
locale = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != defaultAPIBind {
		t.Fatalf("APIBind = %q, want %q", cfg.APIBind, defaultAPIBind)
	}
	if cfg.PollSeconds != defaultPollSeconds {
		t.Fatalf("PollSeconds = %d, want %d", cfg.PollSeconds, defaultPollSeconds)
	}
	if cfg.Locale != defaultLocale {
		t.Fatalf("Locale = %q, want %q", cfg.Locale, defaultLocale)
	}
}

func TestLoad_ViewOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
[views.secondary]
global_filter_fields = ["vehicle"]
show_gridlines = false

[[views.secondary.columns]]
field = "vehicle"
header = "Unit"
sortable = false

[[views.secondary.columns]]
field = "mileage"
header = "Km"
type = "number"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	fallback := table.Configuration{Columns: []table.Column{{Field: "x"}}}
	view := cfg.View("secondary", fallback)
	if len(view.Columns) != 2 || view.Columns[0].Header != "Unit" || view.Columns[0].IsSortable() {
		t.Fatalf("view = %#v", view.Columns)
	}
	if view.Columns[1].Type != table.TypeNumber || view.GridlinesShown() || !view.Searchable() {
		t.Fatalf("view flags wrong: %#v", view)
	}
	if got := cfg.View("primary", fallback); len(got.Columns) != 1 || got.Columns[0].Field != "x" {
		t.Fatalf("missing view should fall back, got %#v", got)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_bind = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
