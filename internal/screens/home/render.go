package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/ui/theme"
)

const titleFull = `╔═╗╔╦╗╔═╗╔╦╗╦╔═╗ ╦ ╦╔═╗╔═╗╔╦╗
║╣ ║║║║ ║ ║ ║║═╬╗║ ║║╣ ╚═╗ ║
╚═╝╩ ╩╚═╝ ╩ ╩╚═╝╚╚═╝╚═╝╚═╝ ╩ `

const titleCompact = "E · M · O · T · I · Q · U · E · S · T"

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 30

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderStatsBar renders the headline numbers in a bordered box matching
// the content width.
func renderStatsBar(st homeStats, cw int, compact bool) string {
	todayStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	totalStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	starStyle := lipgloss.NewStyle().Foreground(theme.Star).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	stars := dimStyle.Render("★ —")
	if st.ratings > 0 {
		stars = starStyle.Render(fmt.Sprintf("★ %.1f", st.avgStars))
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			todayStyle.Render(fmt.Sprintf("hoy %d", st.today)),
			totalStyle.Render(fmt.Sprintf("total %d", st.total)),
			stars,
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			todayStyle.Render(fmt.Sprintf("☀ %d HOY", st.today)),
			totalStyle.Render(fmt.Sprintf("✎ %d CUESTIONARIOS", st.total)),
			stars,
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []string, selected int, cw int, compact bool) string {
	var rows []string
	for i, label := range items {
		if compact {
			rows = append(rows, renderCompactItem(label, i == selected))
			continue
		}
		if i == selected {
			rows = append(rows, lipgloss.NewStyle().
				Width(buttonWidth).
				Align(lipgloss.Center).
				Bold(true).
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(theme.Primary).
				Padding(0, 1).
				Render("▸ "+label))
		} else {
			rows = append(rows, lipgloss.NewStyle().
				Width(buttonWidth).
				Align(lipgloss.Center).
				Foreground(theme.Text).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(theme.Border).
				Padding(0, 1).
				Render(label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}

// renderCompactItem is a borderless menu row for small terminals.
func renderCompactItem(label string, selected bool) string {
	if selected {
		return lipgloss.NewStyle().
			Foreground(theme.BgDark).
			Background(theme.Primary).
			Bold(true).
			Render(" ▸ " + label + " ")
	}
	return lipgloss.NewStyle().
		Foreground(theme.Text).
		Render("   " + label)
}

// renderPendingNote tells the student an unfinished questionnaire is waiting.
func renderPendingNote(name string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("⚠ %s tiene un cuestionario sin terminar", name))
}

// renderMascotBox renders the mascot centered at content width.
func renderMascotBox(v MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(v))
}
