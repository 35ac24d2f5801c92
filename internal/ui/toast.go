package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Severity classifies a toast.
type Severity int

const (
	SeveritySuccess Severity = iota
	SeverityError
)

const toastLifetime = 4 * time.Second

type toast struct {
	Severity Severity
	Summary  string
	Detail   string
	expires  time.Time
}

// toasts holds visible notifications, oldest first.
type toasts []toast

func (ts toasts) push(sev Severity, summary, detail string, now time.Time) toasts {
	return append(ts, toast{Severity: sev, Summary: summary, Detail: detail, expires: now.Add(toastLifetime)})
}

// prune drops toasts that expired at or before now.
func (ts toasts) prune(now time.Time) toasts {
	out := ts[:0:0]
	for _, t := range ts {
		if now.Before(t.expires) {
			out = append(out, t)
		}
	}
	return out
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	styles := m.theme.Styles()
	boxes := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		color, title := m.theme.Success, styles.SuccessText.Render("✔ "+t.Summary)
		if t.Severity == SeverityError {
			color, title = m.theme.Danger, styles.DangerText.Render("✘ "+t.Summary)
		}
		body := title
		if strings.TrimSpace(t.Detail) != "" {
			body += "\n" + styles.Text.Render(truncate(t.Detail, 60))
		}
		boxes = append(boxes, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(color)).
			Padding(0, 1).
			Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}
