package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Row is an opaque JSON record. The table never assumes a shape beyond what
// the configured field paths require.
type Row struct {
	raw []byte
}

// NewRow encodes v as a row. Raw JSON ([]byte, json.RawMessage, string) is
// used as-is after validation.
func NewRow(v any) (Row, error) {
	var raw []byte
	switch x := v.(type) {
	case Row:
		return x, nil
	case json.RawMessage:
		raw = append([]byte(nil), x...)
	case []byte:
		raw = append([]byte(nil), x...)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return Row{}, fmt.Errorf("encode row: %w", err)
		}
		raw = b
	}
	if !gjson.ValidBytes(raw) {
		return Row{}, fmt.Errorf("encode row: invalid json")
	}
	return Row{raw: raw}, nil
}

// MustRow is NewRow that panics on error. Intended for fixtures.
func MustRow(v any) Row {
	r, err := NewRow(v)
	if err != nil {
		panic(err)
	}
	return r
}

// RowsOf converts a slice of JSON-encodable records.
func RowsOf[T any](items []T) ([]Row, error) {
	rows := make([]Row, 0, len(items))
	for i, it := range items {
		r, err := NewRow(it)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// Raw returns a copy of the encoded record.
func (r Row) Raw() json.RawMessage {
	return append(json.RawMessage(nil), r.raw...)
}

// Decode unmarshals the row into dest.
func (r Row) Decode(dest any) error {
	if len(r.raw) == 0 {
		return fmt.Errorf("decode row: empty")
	}
	return json.Unmarshal(r.raw, dest)
}

// Equal reports whether both rows hold the same encoding.
func (r Row) Equal(o Row) bool { return bytes.Equal(r.raw, o.raw) }

// IsZero reports whether the row holds no record.
func (r Row) IsZero() bool { return len(r.raw) == 0 }

func (r Row) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw(), nil
}

func (r *Row) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) {
		return fmt.Errorf("decode row: invalid json")
	}
	r.raw = append([]byte(nil), b...)
	return nil
}

func (r Row) String() string { return string(r.raw) }

// Lookup resolves a dotted field path segment by segment. Any segment that
// does not resolve, including a null or scalar intermediate, yields a result
// for which Exists reports false.
func (r Row) Lookup(field string) gjson.Result {
	if len(r.raw) == 0 || field == "" {
		return gjson.Result{}
	}
	res := gjson.ParseBytes(r.raw)
	for _, seg := range strings.Split(field, ".") {
		if seg == "" || !(res.IsObject() || res.IsArray()) {
			return gjson.Result{}
		}
		res = res.Get(escapeSegment(seg))
		if !res.Exists() {
			return gjson.Result{}
		}
	}
	return res
}

// escapeSegment quotes gjson path syntax so a segment is matched literally.
func escapeSegment(seg string) string {
	var b strings.Builder
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if !isPlainPathChar(c) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isPlainPathChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-' || c == ':' || c == ' ':
		return true
	case c > '~':
		return true
	}
	return false
}
