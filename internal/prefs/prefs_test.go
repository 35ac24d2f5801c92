package prefs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		data string // empty means no file
		want Prefs
	}{
		{
			name: "missing file",
			want: Default(),
		},
		{
			name: "full file",
			data: "theme = \"Slate\"\nsidebar_open = false\nexpanded = []\n",
			want: Prefs{Theme: "Slate", SidebarOpen: false, Expanded: []string{}},
		},
		{
			name: "partial file keeps defaults",
			data: "theme = \"Slate\"\n",
			want: Prefs{Theme: "Slate", SidebarOpen: true, Expanded: []string{"Organization"}},
		},
		{
			name: "blank theme",
			data: "theme = \"  \"\n",
			want: Default(),
		},
		{
			name: "expanded cleaned up",
			data: "expanded = [\"Report\", \" \", \"Organization\", \"Report\"]\n",
			want: Prefs{Theme: defaultTheme, SidebarOpen: true, Expanded: []string{"Organization", "Report"}},
		},
		{
			name: "invalid toml",
			data: "not valid toml {{{\n",
			want: Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			if tt.data != "" {
				writeFile(t, path, tt.data)
			}
			if got := Load(path); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Load() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".config", "fleetdash", "prefs.toml"), "theme = \"Slate\"\n")

	if got := Load(""); got.Theme != "Slate" {
		t.Fatalf("Theme = %q, want Slate", got.Theme)
	}
}

func TestSave_RoundTripsAndLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subdir")
	path := filepath.Join(dir, "prefs.toml")

	in := Prefs{Theme: "Slate", SidebarOpen: false, Expanded: []string{"Report", "Organization"}}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := Load(path)
	if got.Theme != "Slate" || got.SidebarOpen || !got.IsExpanded("Report") || !got.IsExpanded("Organization") {
		t.Fatalf("loaded = %#v", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "prefs.toml" {
		t.Fatalf("dir entries = %v, want only prefs.toml", entries)
	}
}
