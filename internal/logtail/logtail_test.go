package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestTail(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		n        int
		expected []string
	}{
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (3)", 3, expectedAll[7:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(logPath, tt.n)
			if err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tail() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 5)
	if err != nil || got != nil {
		t.Fatalf("Tail(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Entry
	}{
		{
			name: "console with caller and fields",
			line: "2026-10-14T10:00:00.000+0200\tINFO\tui/app.go:412\tvehicle status updated\t{\"vehicle\": \"V1\"}",
			want: Entry{
				Time:    "2026-10-14T10:00:00.000+0200",
				Level:   "INFO",
				Caller:  "ui/app.go:412",
				Message: "vehicle status updated",
				Fields:  `{"vehicle": "V1"}`,
			},
		},
		{
			name: "console without caller",
			line: "2026-10-14T10:00:00.000+0200\twarn\tvehicle poll failed",
			want: Entry{Time: "2026-10-14T10:00:00.000+0200", Level: "WARN", Message: "vehicle poll failed"},
		},
		{
			name: "json",
			line: `{"level":"error","ts":"2026-10-14T10:00:00Z","caller":"app/poller.go:70","msg":"boom","error":"timeout"}`,
			want: Entry{Time: "2026-10-14T10:00:00Z", Level: "ERROR", Caller: "app/poller.go:70", Message: "boom", Fields: `{"error":"timeout"}`},
		},
		{
			name: "plain",
			line: "  something else  ",
			want: Entry{Message: "something else"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			tt.want.Raw = tt.line
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestReadEntriesSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleetdash.log")
	data := "a\tINFO\tone\n\n  \na\tERROR\ttwo\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := ReadEntries(path, 0)
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	if len(entries) != 2 || entries[1].Level != "ERROR" || entries[1].Message != "two" {
		t.Fatalf("entries = %#v", entries)
	}
}
