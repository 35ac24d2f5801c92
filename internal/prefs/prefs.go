// Package prefs persists the dashboard's view preferences: theme, sidebar
// state and which menu nodes are expanded. The file lives at
// ~/.config/fleetdash/prefs.toml unless a path is given.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/fleetdash/internal/config"
)

// Prefs holds user preferences for the dashboard.
type Prefs struct {
	Theme       string   `toml:"theme"`
	SidebarOpen bool     `toml:"sidebar_open"`
	Expanded    []string `toml:"expanded"`
}

const (
	defaultPrefsPath = "~/.config/fleetdash/prefs.toml"
	defaultTheme     = "Dracula"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string { return defaultPrefsPath }

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, SidebarOpen: true, Expanded: []string{"Organization"}}
}

// IsExpanded reports whether the sidebar node titled title is open.
func (p Prefs) IsExpanded(title string) bool {
	return slices.Contains(p.Expanded, title)
}

// normalize trims titles, drops blanks and duplicates, and fills in the theme.
func (p Prefs) normalize() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	seen := make(map[string]bool, len(p.Expanded))
	expanded := make([]string, 0, len(p.Expanded))
	for _, title := range p.Expanded {
		title = strings.TrimSpace(title)
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		expanded = append(expanded, title)
	}
	slices.Sort(expanded)
	p.Expanded = expanded
	return p
}

// Load reads preferences from path. An unreadable or malformed file yields
// Default.
func Load(path string) Prefs {
	resolved, err := config.ExpandPath(orDefaultPath(path))
	if err != nil {
		return Default()
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return Default()
	}

	// Keys missing from the file keep their defaults.
	p := Default()
	if err := toml.Unmarshal(data, &p); err != nil {
		return Default()
	}
	return p.normalize()
}

// Save writes p to path atomically (temp file, then rename).
func Save(path string, p Prefs) error {
	resolved, err := config.ExpandPath(orDefaultPath(path))
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p.normalize())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func orDefaultPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return defaultPrefsPath
	}
	return path
}
