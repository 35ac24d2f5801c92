package ui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/fleetdash/internal/fleet"
)

const (
	minCardWidth = 22
	maxCardWidth = 34
)

// renderDashboard draws the cards and both vehicle tables.
func (m Model) renderDashboard(width int) string {
	styles := m.theme.Styles()
	parts := []string{
		styles.Text.Bold(true).Render("Dashboard"),
		m.renderCards(width),
		"",
		m.primary.view(m.theme, width, m.focus == focusPrimary),
		"",
		m.secondary.view(m.theme, width, m.focus == focusSecondary),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderCards(width int) string {
	styles := m.theme.Styles()
	if !m.snapshot.HasCards {
		if m.loading {
			return m.spinner.View() + " " + styles.MutedText.Render("Loading dashboard…")
		}
		return styles.MutedText.Render("No dashboard data")
	}
	cards := m.snapshot.Cards
	if len(cards) == 0 {
		return styles.MutedText.Render("No dashboard data")
	}

	cardWidth := maxCardWidth
	if width > 0 {
		cardWidth = min(max(width/len(cards)-2, minCardWidth), maxCardWidth)
	}
	perLine := len(cards)
	if width > 0 {
		perLine = max(width/(cardWidth+2), 1)
	}

	var lines []string
	for start := 0; start < len(cards); start += perLine {
		end := min(start+perLine, len(cards))
		boxes := make([]string, 0, end-start)
		for _, c := range cards[start:end] {
			boxes = append(boxes, m.renderCard(c, cardWidth))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderCard(c fleet.DashboardCard, width int) string {
	styles := m.theme.Styles()
	color := styles.CardColor(c.Color)
	headline := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(c.Headline())
	title := styles.MutedText.Render(truncate(c.Title, width-4))

	lines := []string{headline}
	if c.Type == fleet.CardPercentage {
		bar := progress.New(
			progress.WithSolidFill(color),
			progress.WithWidth(width-4),
			progress.WithoutPercentage(),
		)
		lines = append(lines, bar.ViewAs(c.Ratio()))
		if label := c.PercentLabel(); label != "" {
			lines = append(lines, styles.Text.Render(label))
		}
	}
	lines = append(lines, title)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 1).
		Margin(0, 1, 0, 0).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
