package table

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	InvalidDate   = "Invalid Date"
	NotANumber    = "NaN"
	DefaultLocale = "en-US"

	IconTrue   = "pi pi-check text-green-500"
	IconFalse  = "pi pi-times text-red-500"
	GlyphTrue  = "✔"
	GlyphFalse = "✘"

	maxFractionDigits = 3
)

// Short date layouts keyed by BCP 47 tag, then by base language.
var dateLayouts = map[string]string{
	"en-US": "1/2/2006",
	"en-GB": "02/01/2006",
	"en-AU": "2/1/2006",
	"en":    "1/2/2006",
	"de":    "2.1.2006",
	"fr":    "02/01/2006",
	"es":    "2/1/2006",
	"it":    "2/1/2006",
	"pt":    "02/01/2006",
	"nl":    "2-1-2006",
	"sv":    "2006-01-02",
	"pl":    "2.01.2006",
	"ja":    "2006/1/2",
	"zh":    "2006/1/2",
	"ko":    "2006. 1. 2.",
}

// dateInputLayouts are tried in order. Date-time forms without a zone are
// wall-clock times in the formatter's location; date-only strings are UTC.
var dateInputLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", false},
}

// Formatter renders typed cell values for one locale.
type Formatter struct {
	tag     language.Tag
	layout  string
	loc     *time.Location
	printer *message.Printer
}

// NewFormatter builds a formatter for locale. An unparsable locale falls back
// to en-US; a nil location uses time.Local.
func NewFormatter(locale string, loc *time.Location) Formatter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || tag == language.Und {
		tag = language.AmericanEnglish
	}
	if loc == nil {
		loc = time.Local
	}
	return Formatter{
		tag:     tag,
		layout:  layoutFor(tag),
		loc:     loc,
		printer: message.NewPrinter(tag),
	}
}

func layoutFor(tag language.Tag) string {
	if l, ok := dateLayouts[tag.String()]; ok {
		return l
	}
	if base, _ := tag.Base(); base.String() != "" {
		if l, ok := dateLayouts[base.String()]; ok {
			return l
		}
	}
	return dateLayouts[DefaultLocale]
}

// Tag returns the formatter's language.
func (f Formatter) Tag() language.Tag { return f.tag }

// Date renders value as a locale short date. Missing and falsy values (null,
// false, 0, "") render empty; values that do not parse render InvalidDate.
func (f Formatter) Date(v gjson.Result) string {
	if !Truthy(v) {
		return ""
	}
	t, ok := f.parseDate(v)
	if !ok {
		return InvalidDate
	}
	return t.In(f.loc).Format(f.layout)
}

func (f Formatter) parseDate(v gjson.Result) (time.Time, bool) {
	switch v.Type {
	case gjson.Number:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(v.Num)), true
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		for _, in := range dateInputLayouts {
			loc := time.UTC
			if in.local {
				loc = f.loc
			}
			if t, err := time.ParseInLocation(in.layout, s, loc); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Number renders value with locale digit grouping and at most three
// fractional digits. Zero renders "0"; non-numeric values render NaN.
func (f Formatter) Number(v gjson.Result) string {
	if isBlank(v) {
		return ""
	}
	n, ok := toNumber(v)
	if !ok || math.IsNaN(n) {
		return NotANumber
	}
	if math.IsInf(n, 0) {
		if n < 0 {
			return "-∞"
		}
		return "∞"
	}
	return f.printer.Sprint(number.Decimal(n, number.MaxFractionDigits(maxFractionDigits)))
}

func toNumber(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Num, true
	case gjson.True:
		return 1, true
	case gjson.False:
		return 0, true
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0, true
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Plain renders value as display text without type formatting.
func Plain(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	case gjson.Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	}
	if v.IsArray() {
		items := v.Array()
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = Plain(it)
		}
		return strings.Join(parts, ",")
	}
	return v.Raw
}

// Truthy follows loose truthiness: missing, null, false, zero, NaN and the
// empty string are false; everything else is true.
func Truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case gjson.String:
		return v.Str != ""
	}
	return v.Exists()
}

func isBlank(v gjson.Result) bool { return v.Type == gjson.Null }

func boolIcon(t bool) (icon, glyph string) {
	if t {
		return IconTrue, GlyphTrue
	}
	return IconFalse, GlyphFalse
}
