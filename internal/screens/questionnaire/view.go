package questionnaire

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/ui/components"
	"github.com/emotiquest/emotiquest/internal/ui/theme"
)

func (q *QuestionnaireScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if q.err != nil {
		msg := theme.ErrorText.Render("No se pudieron cargar las preguntas. Intenta más tarde.")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	var b strings.Builder

	total := q.engine.Len()
	b.WriteString(components.QuizProgress{
		Current:  q.engine.Index() + 1,
		Total:    total,
		Answered: q.engine.Answered(),
		Width:    cw,
	}.View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Width(cw).Render(q.list.View()))

	if q.confirm {
		missing := total - q.engine.Answered()
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(
			fmt.Sprintf("Te faltan %d preguntas por responder. ¿Quieres terminar de todos modos? (s/n)", missing)))
	} else if q.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(q.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(b.String(), cw+6))
}
