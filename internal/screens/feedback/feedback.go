// Package feedback is the satisfaction form shown after the results.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/flow"
	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/router"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/ui/components"
	"github.com/emotiquest/emotiquest/internal/ui/layout"
	"github.com/emotiquest/emotiquest/internal/ui/theme"
	"github.com/emotiquest/emotiquest/internal/validation"
)

type field int

const (
	fieldStars field = iota
	fieldReturn
	fieldComments
	fieldSubmit
	fieldCount
)

// FeedbackScreen collects stars, the would-return answer and optional
// comments.
type FeedbackScreen struct {
	env *screen.Env

	stars    int
	again    components.Choice
	comments components.TextInput
	focus    field

	errs    *validation.Error
	failure string
	done    bool
}

var _ screen.Screen = (*FeedbackScreen)(nil)
var _ screen.BackHandler = (*FeedbackScreen)(nil)

// New creates an empty rating form.
func New(env *screen.Env) *FeedbackScreen {
	labels := make([]string, len(rating.Choices))
	for i, c := range rating.Choices {
		labels[i] = c.Label()
	}
	f := &FeedbackScreen{
		env:      env,
		again:    components.NewChoice(labels),
		comments: components.NewTextInput("Comentarios (opcional)", false, rating.MaxCommentLength),
	}
	f.comments.Blur()
	return f
}

func (f *FeedbackScreen) Init() tea.Cmd { return nil }

func (f *FeedbackScreen) Title() string { return "Califica tu experiencia" }

func (f *FeedbackScreen) KeyHints() []layout.KeyHint {
	if f.done {
		return []layout.KeyHint{{Key: "Enter", Description: "Volver al inicio"}}
	}
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Campo"},
		{Key: "←/→ 1-5", Description: "Elegir"},
		{Key: "Enter", Description: "Enviar"},
		{Key: "Esc", Description: "Omitir"},
	}
}

// Back skips the form and ends the visit.
func (f *FeedbackScreen) Back() tea.Cmd {
	f.env.Flow.Restart(context.Background())
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// Stars returns the selected star count, 0 when unset.
func (f *FeedbackScreen) Stars() int { return f.stars }

// Done reports whether the rating was saved.
func (f *FeedbackScreen) Done() bool { return f.done }

func (f *FeedbackScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if f.focus == fieldComments {
			var cmd tea.Cmd
			f.comments, cmd = f.comments.Update(msg)
			return f, cmd
		}
		return f, nil
	}

	if f.done {
		if kmsg.String() == "enter" {
			return f, f.Back()
		}
		return f, nil
	}

	switch kmsg.String() {
	case "tab", "down":
		return f, f.setFocus((f.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return f, f.setFocus((f.focus + fieldCount - 1) % fieldCount)
	case "enter":
		if f.focus == fieldSubmit || f.focus == fieldComments {
			return f, f.submit()
		}
		return f, f.setFocus(f.focus + 1)
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldStars:
		f.updateStars(kmsg.String())
	case fieldReturn:
		f.again, cmd = f.again.Update(msg)
	case fieldComments:
		f.comments, cmd = f.comments.Update(msg)
	}
	return f, cmd
}

func (f *FeedbackScreen) updateStars(key string) {
	switch key {
	case "left", "h":
		if f.stars > rating.MinStars {
			f.stars--
		}
	case "right", "l":
		if f.stars < rating.MaxStars {
			f.stars++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '5' {
			f.stars = int(key[0] - '0')
		}
	}
}

func (f *FeedbackScreen) setFocus(fl field) tea.Cmd {
	f.focus = fl
	f.again.Focused = fl == fieldReturn
	if fl == fieldComments {
		return f.comments.Focus()
	}
	f.comments.Blur()
	return nil
}

func (f *FeedbackScreen) input() rating.Input {
	in := rating.Input{Stars: f.stars, Comments: f.comments.Value()}
	if f.again.Selected >= 0 {
		in.WouldReturn = rating.Choices[f.again.Selected]
	}
	return in
}

func (f *FeedbackScreen) submit() tea.Cmd {
	f.errs = nil
	f.failure = ""

	_, err := f.env.Flow.SubmitRating(context.Background(), f.input())
	if err != nil {
		if verr, ok := validation.As(err); ok {
			f.errs = verr
			if verr.Has("rating") {
				return f.setFocus(fieldStars)
			}
			return f.setFocus(fieldReturn)
		}
		f.env.Log.Error("submit rating", "error", err)
		switch {
		case errors.Is(err, flow.ErrAlreadyRated):
			f.failure = "Ya calificaste este cuestionario."
		default:
			f.failure = "No se pudo guardar tu calificación. Intenta de nuevo."
		}
		return nil
	}
	f.done = true
	f.comments.Blur()
	return nil
}

func (f *FeedbackScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if f.done {
		lines := []string{
			theme.Title.Render("¡Gracias por tu calificación! 💜"),
			"",
			theme.Body.Render("Tu opinión nos ayuda a mejorar EmotiQuest."),
			"",
			theme.Hint.Render("Presiona Enter para volver al inicio"),
		}
		content := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(content, cw+6))
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("¿Qué te pareció EmotiQuest?"))
	b.WriteString("\n\n")

	f.writeField(&b, "¿Cuántas estrellas nos das?", "rating", fieldStars, f.renderStars())
	f.writeField(&b, "¿Volverías a usar EmotiQuest?", "volveria", fieldReturn, f.again.View())
	f.writeField(&b, "Comentarios", "", fieldComments, f.comments.View()+
		theme.Hint.Render(fmt.Sprintf("  %d/%d", len([]rune(f.comments.Value())), rating.MaxCommentLength)))

	b.WriteString(components.NewButton("Enviar", f.focus == fieldSubmit, nil).View())

	if f.failure != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Render(f.failure))
	}

	content := lipgloss.NewStyle().Width(cw).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(content, cw+6))
}

func (f *FeedbackScreen) renderStars() string {
	on := lipgloss.NewStyle().Foreground(theme.Star)
	off := lipgloss.NewStyle().Foreground(theme.Border)

	var b strings.Builder
	for i := rating.MinStars; i <= rating.MaxStars; i++ {
		if i <= f.stars {
			b.WriteString(on.Render("★ "))
		} else {
			b.WriteString(off.Render("☆ "))
		}
	}
	b.WriteString(" ")
	b.WriteString(theme.Hint.Render(rating.Label(f.stars)))
	return b.String()
}

func (f *FeedbackScreen) writeField(b *strings.Builder, label, key string, fl field, view string) {
	style := theme.Unselected
	marker := "  "
	if f.focus == fl {
		style = theme.Selected
		marker = "▸ "
	}
	b.WriteString(style.Render(marker + label))
	b.WriteString("\n  ")
	b.WriteString(view)
	b.WriteString("\n")
	if key != "" && f.errs != nil && f.errs.Has(key) {
		b.WriteString("  ")
		b.WriteString(theme.ErrorText.Render(f.errs.Message(key)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
