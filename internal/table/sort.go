package table

import (
	"sort"

	"github.com/tidwall/gjson"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder is 1 for ascending and -1 for descending.
type SortOrder int

const (
	SortNone       SortOrder = 0
	SortAscending  SortOrder = 1
	SortDescending SortOrder = -1
)

func (o SortOrder) String() string {
	switch o {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return "none"
	}
}

// SortEvent is emitted when the user activates a sortable header.
type SortEvent struct {
	Field string    `json:"field"`
	Order SortOrder `json:"order"`
}

// next returns the event for activating field given the current sort.
// Re-activating the ascending column flips it; anything else starts ascending.
func (e SortEvent) next(field string) SortEvent {
	if e.Field == field && e.Order == SortAscending {
		return SortEvent{Field: field, Order: SortDescending}
	}
	return SortEvent{Field: field, Order: SortAscending}
}

// SortRows returns rows ordered by ev. The input is left untouched and equal
// values keep their relative order. Missing values sort first ascending.
func SortRows(rows []Row, ev SortEvent, tag language.Tag) []Row {
	out := append([]Row(nil), rows...)
	if ev.Field == "" || ev.Order == SortNone {
		return out
	}
	coll := collate.New(tag)
	keys := make([]gjson.Result, len(out))
	for i, r := range out {
		keys[i] = r.Lookup(ev.Field)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return int(ev.Order)*compareValues(coll, keys[idx[a]], keys[idx[b]]) < 0
	})
	sorted := make([]Row, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

func compareValues(coll *collate.Collator, a, b gjson.Result) int {
	aNull, bNull := a.Type == gjson.Null, b.Type == gjson.Null
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return -1
	case bNull:
		return 1
	}
	if a.Type == gjson.String && b.Type == gjson.String {
		return coll.CompareString(a.Str, b.Str)
	}
	if a.Type == gjson.Number && b.Type == gjson.Number {
		return compareFloat(a.Num, b.Num)
	}
	if isBool(a) && isBool(b) {
		return compareFloat(boolNum(a), boolNum(b))
	}
	return coll.CompareString(Plain(a), Plain(b))
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func isBool(v gjson.Result) bool { return v.Type == gjson.True || v.Type == gjson.False }

func boolNum(v gjson.Result) float64 {
	if v.Type == gjson.True {
		return 1
	}
	return 0
}
