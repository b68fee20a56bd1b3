// Package avatar lets the student pick a picture after login.
package avatar

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/router"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/screens/instructions"
	"github.com/emotiquest/emotiquest/internal/session"
	"github.com/emotiquest/emotiquest/internal/ui/components"
	"github.com/emotiquest/emotiquest/internal/ui/layout"
	"github.com/emotiquest/emotiquest/internal/ui/theme"
)

const columns = 4

// AvatarScreen shows the avatars for the student's gender in a grid.
type AvatarScreen struct {
	env     *screen.Env
	avatars []session.Avatar
	cursor  int
	failure string
}

var _ screen.Screen = (*AvatarScreen)(nil)
var _ screen.BackHandler = (*AvatarScreen)(nil)

// New creates the picker for the logged-in student.
func New(env *screen.Env) *AvatarScreen {
	a := &AvatarScreen{
		env:     env,
		avatars: env.Flow.Avatars(),
	}
	// Preselect the stored avatar when resuming.
	if s := env.Flow.Session(); s != nil && s.Avatar != nil {
		for i, av := range a.avatars {
			if av.ID == s.Avatar.ID {
				a.cursor = i
			}
		}
	}
	return a
}

func (a *AvatarScreen) Init() tea.Cmd { return nil }

func (a *AvatarScreen) Title() string { return "Elige tu avatar" }

func (a *AvatarScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Mover"},
		{Key: "Enter", Description: "Elegir"},
		{Key: "Esc", Description: "Salir"},
	}
}

// Back abandons the visit: the session is dropped and the menu shown.
func (a *AvatarScreen) Back() tea.Cmd {
	a.env.Flow.Restart(context.Background())
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (a *AvatarScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(a.avatars) == 0 {
		return a, nil
	}

	switch kmsg.String() {
	case "left", "h":
		if a.cursor > 0 {
			a.cursor--
		}
	case "right", "l":
		if a.cursor < len(a.avatars)-1 {
			a.cursor++
		}
	case "up", "k":
		if a.cursor-columns >= 0 {
			a.cursor -= columns
		}
	case "down", "j":
		if a.cursor+columns < len(a.avatars) {
			a.cursor += columns
		}
	case "enter":
		return a, a.choose()
	}
	return a, nil
}

func (a *AvatarScreen) choose() tea.Cmd {
	chosen := a.avatars[a.cursor]
	if err := a.env.Flow.ChooseAvatar(context.Background(), chosen.ID); err != nil {
		a.env.Log.Error("choose avatar", "avatar", chosen.ID, "error", err)
		a.failure = "No se pudo guardar tu avatar. Intenta de nuevo."
		return nil
	}
	env := a.env
	next := instructions.New(env).WithBack(func() screen.Screen { return New(env) })
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// Cursor returns the highlighted avatar index.
func (a *AvatarScreen) Cursor() int { return a.cursor }

func (a *AvatarScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	greeting := "¡Elige tu avatar!"
	if p, ok := a.env.Flow.User(); ok {
		greeting = fmt.Sprintf("¡Hola, %s! Elige tu avatar", p.FirstName())
	}

	var rows []string
	var row []string
	for i, av := range a.avatars {
		row = append(row, a.cell(i, av))
		if len(row) == columns || i == len(a.avatars)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}

	sections := []string{
		theme.Title.Render(greeting),
		"",
		strings.Join(rows, "\n"),
	}
	if a.failure != "" {
		sections = append(sections, "", theme.ErrorText.Render(a.failure))
	}

	content := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(content, cw+6))
}

func (a *AvatarScreen) cell(i int, av session.Avatar) string {
	border := theme.Border
	if i == a.cursor {
		border = theme.Primary
	}
	label := fmt.Sprintf("%s\n%d", av.Emoji, i+1)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(8).
		Align(lipgloss.Center).
		Margin(0, 1).
		Render(label)
}
