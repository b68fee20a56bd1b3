package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/ui/theme"
)

// QuizProgress shows where the student is in the questionnaire: a
// "Pregunta X de Y" line with the answered count, over a bar filled by the
// share of answered questions.
type QuizProgress struct {
	Current  int // 1-based position
	Total    int
	Answered int
	Width    int
}

// Label is the position line, e.g. "Pregunta 3 de 8".
func (p QuizProgress) Label() string {
	return fmt.Sprintf("Pregunta %d de %d", p.Current, p.Total)
}

// Ratio is the answered share, clamped to [0, 1].
func (p QuizProgress) Ratio() float64 {
	if p.Total <= 0 {
		return 0
	}
	r := float64(p.Answered) / float64(p.Total)
	return min(max(r, 0), 1)
}

// View renders the position line and the bar.
func (p QuizProgress) View() string {
	info := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(p.Label())
	answered := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d respondidas", p.Answered))
	pad := max(p.Width-lipgloss.Width(info)-lipgloss.Width(answered), 1)

	barWidth := max(p.Width, 4)
	filled := int(float64(barWidth) * p.Ratio())

	bar := lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	return info + strings.Repeat(" ", pad) + answered + "\n" + bar
}
