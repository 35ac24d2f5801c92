package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func value(raw string) gjson.Result { return gjson.Parse(raw) }

func TestFormatNumber(t *testing.T) {
	f := NewFormatter("en-US", time.UTC)
	cases := map[string]string{
		`0`:          "0",
		`1234567`:    "1,234,567",
		`1234.56789`: "1,234.568",
		`-42.5`:      "-42.5",
		`"2500"`:     "2,500",
		`""`:         "0",
		`"abc"`:      NotANumber,
		`true`:       "1",
		`{"a":1}`:    NotANumber,
		`null`:       "",
	}
	for raw, want := range cases {
		require.Equal(t, want, f.Number(value(raw)), raw)
	}
	require.Equal(t, "", f.Number(gjson.Result{}))
}

func TestFormatNumberLocale(t *testing.T) {
	f := NewFormatter("de-DE", time.UTC)
	require.Equal(t, "1.234.567,5", f.Number(value(`1234567.5`)))
}

func TestFormatDate(t *testing.T) {
	f := NewFormatter("en-US", time.UTC)
	cases := map[string]string{
		`"2024-03-05"`:           "3/5/2024",
		`"2024-12-31T23:00:00Z"`: "12/31/2024",
		`"2024-01-02 08:00:00"`:  "1/2/2024",
		`1704067200000`:          "1/1/2024",
		`"not a date"`:           InvalidDate,
		`{"a":1}`:                InvalidDate,
		`null`:                   "",
		`""`:                     "",
		`0`:                      "",
		`false`:                  "",
	}
	for raw, want := range cases {
		require.Equal(t, want, f.Date(value(raw)), raw)
	}
	require.Equal(t, "", f.Date(gjson.Result{}))
}

func TestFormatDateZoneless(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	f := NewFormatter("en-US", loc)
	// wall-clock time in loc, not UTC shifted back a day
	require.Equal(t, "3/5/2024", f.Date(value(`"2024-03-05T23:30:00"`)))
	require.Equal(t, "3/5/2024", f.Date(value(`"2024-03-05 00:30:00"`)))
	// explicit zone still converts
	require.Equal(t, "3/4/2024", f.Date(value(`"2024-03-05T01:00:00Z"`)))
}

func TestFormatDateLocales(t *testing.T) {
	v := value(`"2024-03-05"`)
	require.Equal(t, "5.3.2024", NewFormatter("de", time.UTC).Date(v))
	require.Equal(t, "05/03/2024", NewFormatter("en-GB", time.UTC).Date(v))
	require.Equal(t, "2024/3/5", NewFormatter("ja-JP", time.UTC).Date(v))
	require.Equal(t, "3/5/2024", NewFormatter("xx-not-a-locale!", time.UTC).Date(v))
}

func TestFormatDateTimeZone(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	f := NewFormatter("en-US", loc)
	require.Equal(t, "3/4/2024", f.Date(value(`"2024-03-05"`)))
}

func TestTruthy(t *testing.T) {
	falsy := []string{`null`, `false`, `0`, `""`}
	for _, raw := range falsy {
		require.False(t, Truthy(value(raw)), raw)
	}
	truthy := []string{`true`, `1`, `-3`, `"no"`, `[]`, `{}`}
	for _, raw := range truthy {
		require.True(t, Truthy(value(raw)), raw)
	}
	require.False(t, Truthy(gjson.Result{}))
}

func TestPlain(t *testing.T) {
	require.Equal(t, "1.5", Plain(value(`1.5`)))
	require.Equal(t, "1,a,true", Plain(value(`[1,"a",true]`)))
	require.Equal(t, `{"a":1}`, Plain(value(`{"a":1}`)))
	require.Equal(t, "", Plain(value(`null`)))
}
