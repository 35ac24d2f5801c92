package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/fleetdash/internal/logtail"
)

// reportLines caps how much of the log the report reads per refresh.
const reportLines = 200

type report struct {
	entries []logtail.Entry
	err     error
	loaded  bool
}

type reportLoadedMsg struct {
	entries []logtail.Entry
	err     error
}

func (r *report) apply(msg reportLoadedMsg) {
	r.loaded = true
	r.err = msg.err
	if msg.err == nil {
		r.entries = msg.entries
	}
}

// renderReport lists recent log activity, newest first.
func (m Model) renderReport(width int) string {
	styles := m.theme.Styles()
	lines := []string{
		styles.Text.Bold(true).Render("Activity Report"),
		styles.MutedText.Render(ternary(m.logPath == "", "Logging to file is disabled", m.logPath)),
		"",
	}

	switch {
	case !m.report.loaded:
		lines = append(lines, m.spinner.View()+" "+styles.MutedText.Render("Reading log…"))
	case m.report.err != nil:
		lines = append(lines, styles.DangerText.Render(m.report.err.Error()))
	case len(m.report.entries) == 0:
		lines = append(lines, styles.MutedText.Render("No activity yet"))
	}

	for i := len(m.report.entries) - 1; i >= 0; i-- {
		lines = append(lines, m.renderEntry(m.report.entries[i], width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderEntry(e logtail.Entry, width int) string {
	styles := m.theme.Styles()
	if e.Level == "" {
		return styles.FaintText.Render(truncate(e.Message, width))
	}

	ts := e.Time
	if i := strings.IndexByte(ts, 'T'); i >= 0 && len(ts) >= i+9 {
		ts = ts[i+1 : i+9]
	}
	level := padRight(e.Level, 5)
	var levelStyle lipgloss.Style
	switch e.Level {
	case "DEBUG":
		levelStyle = styles.FaintText
	case "INFO":
		levelStyle = styles.InfoText
	case "WARN":
		levelStyle = styles.WarningText
	default:
		levelStyle = styles.DangerText
	}

	room := width - lipgloss.Width(ts) - len(level) - 2
	msg := truncate(e.Message, room)
	line := styles.MutedText.Render(ts) + " " + levelStyle.Render(level) + " " + styles.Text.Render(msg)
	if rest := room - lipgloss.Width(msg) - 1; e.Fields != "" && rest > 3 {
		line += " " + styles.FaintText.Render(truncate(e.Fields, rest))
	}
	return line
}
