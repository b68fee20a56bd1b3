// Package instructions explains the questionnaire before it starts.
package instructions

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/emotion"
	"github.com/emotiquest/emotiquest/internal/router"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/screens/questionnaire"
	"github.com/emotiquest/emotiquest/internal/ui/components"
	"github.com/emotiquest/emotiquest/internal/ui/layout"
	"github.com/emotiquest/emotiquest/internal/ui/theme"
)

var steps = []string{
	"Lee cada pregunta con calma.",
	"Elige la opción que mejor describa cómo te sentiste.",
	"No hay respuestas correctas ni incorrectas.",
	"Puedes regresar a una pregunta para cambiar tu respuesta.",
	"Al final verás la emoción que más te acompañó hoy.",
}

// InstructionsScreen shows how the questionnaire works.
type InstructionsScreen struct {
	env     *screen.Env
	start   components.Button
	failure string

	// backFactory builds the avatar picker; injected to avoid an import
	// cycle.
	backFactory func() screen.Screen
}

var _ screen.Screen = (*InstructionsScreen)(nil)
var _ screen.BackHandler = (*InstructionsScreen)(nil)

// New creates the instructions screen. Esc pops back to the menu unless
// WithBack sets a previous step.
func New(env *screen.Env) *InstructionsScreen {
	i := &InstructionsScreen{env: env}
	i.start = components.NewButton("Comenzar cuestionario", true, i.begin)
	return i
}

// WithBack makes Esc return to the screen built by factory.
func (i *InstructionsScreen) WithBack(factory func() screen.Screen) *InstructionsScreen {
	i.backFactory = factory
	return i
}

// Init records that the instructions were shown.
func (i *InstructionsScreen) Init() tea.Cmd {
	if err := i.env.Flow.MarkInstructionsViewed(context.Background()); err != nil {
		i.env.Log.Warn("instructions view not recorded", "error", err)
	}
	return nil
}

func (i *InstructionsScreen) Title() string { return "Instrucciones" }

func (i *InstructionsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Comenzar"},
		{Key: "Esc", Description: "Cambiar avatar"},
	}
}

// Back returns to the avatar picker.
func (i *InstructionsScreen) Back() tea.Cmd {
	if i.backFactory == nil {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	prev := i.backFactory()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: prev} }
}

func (i *InstructionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	i.start, cmd = i.start.Update(msg)
	return i, cmd
}

func (i *InstructionsScreen) begin() tea.Cmd {
	q := questionnaire.New(i.env)
	if q.Err() != nil {
		i.failure = "No se pudieron cargar las preguntas."
		return nil
	}
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: q} }
}

func (i *InstructionsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	greeting := "¡Perfecto!"
	if s := i.env.Flow.Session(); s != nil {
		greeting = fmt.Sprintf("¡Perfecto, %s!", s.Name)
		if s.Avatar != nil {
			greeting = s.Avatar.Emoji + "  " + greeting
		}
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(greeting))
	b.WriteString("\n\n")
	for n, s := range steps {
		b.WriteString(theme.Body.Render(fmt.Sprintf("%d. %s", n+1, s)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Las emociones que puedes descubrir:"))
	b.WriteString("\n")
	var chips []string
	for _, k := range emotion.Keys() {
		chips = append(chips, theme.Emotion(k).Render(emotion.EmojiOf(k)+" "+emotion.NameOf(k)))
	}
	b.WriteString(lipgloss.NewStyle().Width(cw).Render(strings.Join(chips, "  ")))
	b.WriteString("\n\n")
	b.WriteString(i.start.View())

	if i.failure != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Render(i.failure))
	}

	content := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(content, cw+6))
}
