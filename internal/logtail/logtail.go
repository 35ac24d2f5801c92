package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// Entry is one parsed log line.
type Entry struct {
	Time    string
	Level   string // upper case, empty when the line carries none
	Caller  string
	Message string
	Fields  string // structured fields as JSON, if any
	Raw     string
}

// Tail returns the last n lines of the file at path; n <= 0 returns every
// line. A missing file yields no lines and no error.
func Tail(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > 2*n {
			lines = append(lines[:0], lines[len(lines)-n:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// ReadEntries tails path and parses each line.
func ReadEntries(path string, n int) ([]Entry, error) {
	lines, err := Tail(path, n)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

// Parse splits a zap console line (tab separated: time, level, caller,
// message, fields) or a zap JSON line. Anything else becomes a bare message.
func Parse(line string) Entry {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") && gjson.Valid(trimmed) {
		return parseJSON(trimmed, line)
	}

	e := Entry{Raw: line}
	parts := strings.Split(line, "\t")
	if len(parts) < 3 || !isLevel(parts[1]) {
		e.Message = trimmed
		return e
	}
	e.Time = parts[0]
	e.Level = strings.ToUpper(parts[1])
	rest := parts[2:]
	if len(rest) > 1 && looksLikeCaller(rest[0]) {
		e.Caller = rest[0]
		rest = rest[1:]
	}
	e.Message = rest[0]
	if len(rest) > 1 {
		e.Fields = strings.Join(rest[1:], " ")
	}
	return e
}

func parseJSON(obj, raw string) Entry {
	res := gjson.Parse(obj)
	e := Entry{
		Time:    res.Get("ts").String(),
		Level:   strings.ToUpper(res.Get("level").String()),
		Caller:  res.Get("caller").String(),
		Message: res.Get("msg").String(),
		Raw:     raw,
	}
	extra := make([]string, 0)
	res.ForEach(func(k, v gjson.Result) bool {
		switch k.String() {
		case "ts", "level", "caller", "msg", "stacktrace":
		default:
			extra = append(extra, fmt.Sprintf("%q:%s", k.String(), v.Raw))
		}
		return true
	})
	if len(extra) > 0 {
		e.Fields = "{" + strings.Join(extra, ",") + "}"
	}
	return e
}

func isLevel(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "INFO", "WARN", "ERROR", "DPANIC", "PANIC", "FATAL":
		return true
	}
	return false
}

// looksLikeCaller matches zap's short caller, e.g. "app/poller.go:42".
func looksLikeCaller(s string) bool {
	i := strings.LastIndex(s, ".go:")
	return i > 0 && !strings.ContainsAny(s, " \t")
}
