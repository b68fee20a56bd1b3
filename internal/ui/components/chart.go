package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/emotion"
	"github.com/emotiquest/emotiquest/internal/ui/theme"
)

// BarChart renders one horizontal bar per row, scaled to the largest count
// and drawn in the emotion's color.
func BarChart(rows []emotion.ChartRow, width int) string {
	if len(rows) == 0 {
		return theme.Hint.Render("Sin datos todavía")
	}

	maxCount, labelWidth := 0, 0
	for _, r := range rows {
		if r.Count > maxCount {
			maxCount = r.Count
		}
		if w := lipgloss.Width(r.Emoji + " " + r.Name); w > labelWidth {
			labelWidth = w
		}
	}

	barWidth := width - labelWidth - 8
	if barWidth < 4 {
		barWidth = 4
	}

	var b strings.Builder
	for i, r := range rows {
		label := r.Emoji + " " + r.Name
		label += strings.Repeat(" ", labelWidth-lipgloss.Width(label))

		n := 0
		if maxCount > 0 {
			n = r.Count * barWidth / maxCount
		}
		if n == 0 && r.Count > 0 {
			n = 1
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color)).Render(strings.Repeat("█", n))

		b.WriteString(fmt.Sprintf("%s  %s %d", label, bar, r.Count))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
