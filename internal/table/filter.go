package table

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	GlobalFilterKey   = "global"
	MatchContains     = "contains"
	SearchPlaceholder = "Search"
)

// FilterMetadata describes one active filter.
type FilterMetadata struct {
	Value     string `json:"value"`
	MatchMode string `json:"matchMode"`
}

// FilterEvent is emitted when the search text changes.
type FilterEvent struct {
	Filters       map[string]FilterMetadata `json:"filters"`
	FilteredValue []Row                     `json:"filteredValue"`
}

// FilterRows keeps the rows where any of fields contains text, ignoring case.
// Empty text keeps every row.
func FilterRows(rows []Row, fields []string, text string) []Row {
	if text == "" {
		return append([]Row(nil), rows...)
	}
	fold := cases.Fold()
	needle := fold.String(text)
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if rowMatches(r, fields, needle, fold) {
			out = append(out, r)
		}
	}
	return out
}

func rowMatches(r Row, fields []string, needle string, fold cases.Caser) bool {
	for _, f := range fields {
		v := r.Lookup(f)
		if isBlank(v) {
			continue
		}
		if strings.Contains(fold.String(Plain(v)), needle) {
			return true
		}
	}
	return false
}

// searchFields returns the global filter fields whose column allows filtering.
func searchFields(cfg Configuration) []string {
	out := make([]string, 0, len(cfg.GlobalFilterFields))
	for _, f := range cfg.GlobalFilterFields {
		if col, ok := cfg.Column(f); ok && !col.IsFilterable() {
			continue
		}
		out = append(out, f)
	}
	return out
}
