package ui

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/fleetdash/internal/fleetapi"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{
		styles.Logo.Render("fleetdash"),
		styles.AccentText.Render(routeIcon(m.route) + " " + m.route.String()),
	}

	snap := m.snapshot
	switch {
	case snap.IsOffline():
		parts = append(parts,
			styles.DangerText.Render("● API "+classifyConnectionError(snap.LastError)),
			styles.WarningText.Render("Retrying..."))
	case snap.LastError != nil:
		parts = append(parts, styles.WarningText.Render("● "+classifyConnectionError(snap.LastError)))
	case !snap.HasVehicles && !snap.HasCards:
		parts = append(parts, styles.WarningText.Render("Connecting..."))
	default:
		parts = append(parts, styles.SuccessText.Render("● Online"))
	}

	if !snap.LastUpdated.IsZero() {
		parts = append(parts, styles.MutedText.Render("Updated "+snap.LastUpdated.Format("15:04:05")))
	}
	parts = append(parts, styles.FaintText.Render(m.theme.Name))

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// classifyConnectionError turns an API error into a short label.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	var statusErr *fleetapi.StatusError
	if errors.As(err, &statusErr) {
		return "HTTP " + strconv.Itoa(statusErr.Code)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "TIMEOUT"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "UNREACHABLE"
	}
	return "ERROR"
}

type hint struct{ key, desc string }

// renderCommandBar renders the key hints under the header.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))

	hints := []hint{{"tab", "pane"}, {"b", "sidebar"}}
	switch m.focus {
	case focusSidebar:
		hints = append(hints, hint{"enter", "open"}, hint{"space", "expand"}, hint{"a", "add user"})
	case focusPrimary, focusSecondary:
		hints = append(hints, hint{"s", "sort"}, hint{"/", "search"}, hint{"enter", "edit status"})
	case focusForm:
		hints = append(hints, hint{"ctrl+s", "create"}, hint{"ctrl+r", "reset"})
	}
	hints = append(hints, hint{"?", "help"}, hint{"q", "quit"})

	out := make([]string, 0, len(hints))
	for _, h := range hints {
		out = append(out, keyStyle.Render("<"+h.key+">")+" "+styles.MutedText.Render(h.desc))
	}
	return styles.Footer.Width(m.width).Render(strings.Join(out, "  "))
}
