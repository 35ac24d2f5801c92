package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Route is a mounted view.
type Route int

const (
	RouteDashboard Route = iota
	RouteReport
	RouteUsers
)

func (r Route) String() string {
	switch r {
	case RouteUsers:
		return "User Management"
	case RouteReport:
		return "Activity Report"
	default:
		return "Dashboard"
	}
}

const (
	iconDashboard    = "▦"
	iconReport       = "▤"
	iconOrganization = "▣"
	iconUsers        = "☺"
	iconAdd          = "+"
)

// routeIcon is the icon shown next to the current route.
func routeIcon(r Route) string {
	switch r {
	case RouteUsers:
		return iconUsers
	case RouteReport:
		return iconReport
	}
	return iconDashboard
}

type menuAction struct {
	Label string
	Icon  string
}

type menuItem struct {
	Title    string
	Icon     string
	Route    *Route
	Action   *menuAction
	Children []menuItem
}

// menuEntry is a menu item as laid out on screen.
type menuEntry struct {
	item  menuItem
	depth int
}

func defaultMenu() []menuItem {
	dashboard, report, users := RouteDashboard, RouteReport, RouteUsers
	return []menuItem{
		{Title: "Dashboard", Icon: iconDashboard, Route: &dashboard},
		{Title: "Report", Icon: iconReport, Route: &report},
		{
			Title: "Organization",
			Icon:  iconOrganization,
			Children: []menuItem{
				{
					Title:  "Users",
					Icon:   iconUsers,
					Route:  &users,
					Action: &menuAction{Label: "Add user", Icon: iconAdd},
				},
			},
		},
	}
}

type sidebar struct {
	items    []menuItem
	open     bool
	expanded map[string]bool
	cursor   int
}

func newSidebar(open bool, expanded []string) sidebar {
	s := sidebar{items: defaultMenu(), open: open, expanded: make(map[string]bool)}
	for _, title := range expanded {
		s.expanded[title] = true
	}
	return s
}

func (s sidebar) isExpanded(title string) bool { return s.expanded[title] }

// toggleExpanded flips the expansion of the node titled title.
func (s *sidebar) toggleExpanded(title string) {
	if s.expanded[title] {
		delete(s.expanded, title)
	} else {
		s.expanded[title] = true
	}
	s.clamp()
}

func (s *sidebar) toggleOpen() { s.open = !s.open }

// expandedTitles returns the open nodes in a stable order for persistence.
func (s sidebar) expandedTitles() []string {
	out := make([]string, 0, len(s.expanded))
	for title := range s.expanded {
		out = append(out, title)
	}
	slices.Sort(out)
	return out
}

// entries flattens the menu, omitting children of collapsed nodes.
func (s sidebar) entries() []menuEntry {
	var out []menuEntry
	var walk func(items []menuItem, depth int)
	walk = func(items []menuItem, depth int) {
		for _, it := range items {
			out = append(out, menuEntry{item: it, depth: depth})
			if len(it.Children) > 0 && s.isExpanded(it.Title) {
				walk(it.Children, depth+1)
			}
		}
	}
	walk(s.items, 0)
	return out
}

func (s sidebar) current() (menuItem, bool) {
	entries := s.entries()
	if s.cursor < 0 || s.cursor >= len(entries) {
		return menuItem{}, false
	}
	return entries[s.cursor].item, true
}

func (s *sidebar) move(delta int) {
	s.cursor += delta
	s.clamp()
}

func (s *sidebar) selectTitle(title string) {
	for i, e := range s.entries() {
		if e.item.Title == title {
			s.cursor = i
			return
		}
	}
}

func (s *sidebar) clamp() {
	n := len(s.entries())
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// renderSidebar draws the sidebar. A closed sidebar shows only the icon column.
func (m Model) renderSidebar(height int) string {
	styles := m.theme.Styles()
	focused := m.focus == focusSidebar

	var lines []string
	if m.sidebar.open {
		lines = append(lines, styles.Logo.Render("fleetdash"), "")
	} else {
		lines = append(lines, styles.Logo.Render(routeIcon(m.route)), "")
	}

	for i, e := range m.sidebar.entries() {
		it := e.item
		active := it.Route != nil && *it.Route == m.route
		var line string
		if m.sidebar.open {
			marker := "  "
			if len(it.Children) > 0 {
				marker = ternary(m.sidebar.isExpanded(it.Title), "▾ ", "▸ ")
			}
			line = strings.Repeat("  ", e.depth) + marker + it.Icon + " " + it.Title
			if it.Action != nil {
				line += "  " + it.Action.Icon
			}
			line = padRight(line, sidebarWidth-2)
		} else {
			line = it.Icon
		}

		style := styles.Text
		switch {
		case focused && i == m.sidebar.cursor:
			style = styles.Selected
		case active:
			style = styles.AccentText.Bold(true)
		}
		lines = append(lines, style.Render(line))
	}

	width := sidebarWidth
	if !m.sidebar.open {
		width = collapsedSidebarWidth
	}
	return styles.Sidebar.
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

const (
	sidebarWidth          = 26
	collapsedSidebarWidth = 5
)
