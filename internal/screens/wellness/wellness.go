// Package wellness is the "Rutas de bienestar" screen: a list of self-care
// resources, each opened in place.
package wellness

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/router"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/ui/components"
	"github.com/emotiquest/emotiquest/internal/ui/layout"
	"github.com/emotiquest/emotiquest/internal/ui/theme"
	"github.com/emotiquest/emotiquest/internal/wellness"
)

// WellnessScreen lists the resources and shows the one that is open.
type WellnessScreen struct {
	env       *screen.Env
	resources []wellness.Resource
	menu      components.Menu
	open      *wellness.Resource
}

var _ screen.Screen = (*WellnessScreen)(nil)
var _ screen.BackHandler = (*WellnessScreen)(nil)

// New creates the resource list.
func New(env *screen.Env) *WellnessScreen {
	w := &WellnessScreen{env: env, resources: wellness.All()}
	items := make([]components.MenuItem, len(w.resources))
	for i, r := range w.resources {
		i := i
		items[i] = components.MenuItem{
			Label:  r.Emoji + "  " + r.Title,
			Action: func() tea.Cmd { return w.openResource(i) },
		}
	}
	w.menu = components.NewMenu(items)
	return w
}

func (w *WellnessScreen) Init() tea.Cmd { return nil }

func (w *WellnessScreen) Title() string { return "Rutas de bienestar" }

func (w *WellnessScreen) KeyHints() []layout.KeyHint {
	if w.open != nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Cerrar"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Elegir"},
		{Key: "Enter", Description: "Abrir"},
		{Key: "Esc", Description: "Volver"},
	}
}

// Back closes the open resource, or leaves the screen.
func (w *WellnessScreen) Back() tea.Cmd {
	if w.open != nil {
		w.open = nil
		return nil
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// Open returns the key of the resource being shown, or "".
func (w *WellnessScreen) Open() string {
	if w.open == nil {
		return ""
	}
	return w.open.Key
}

func (w *WellnessScreen) openResource(i int) tea.Cmd {
	r := w.resources[i]
	w.open = &r
	w.env.Flow.RecordView(context.Background(), r.Key)
	return nil
}

func (w *WellnessScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if w.open != nil {
		if kmsg, ok := msg.(tea.KeyPressMsg); ok && (kmsg.String() == "enter" || kmsg.String() == "q") {
			w.open = nil
		}
		return w, nil
	}
	var cmd tea.Cmd
	w.menu, cmd = w.menu.Update(msg)
	return w, cmd
}

func (w *WellnessScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	if w.open != nil {
		b.WriteString(theme.Title.Render(w.open.Emoji + "  " + w.open.Title))
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Render(w.open.Intro))
		b.WriteString("\n\n")
		for n, s := range w.open.Steps {
			b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(fmt.Sprintf("%d. %s", n+1, s)))
			b.WriteString("\n")
		}
	} else {
		greeting := "🌟 Rutas de bienestar"
		if p, ok := w.env.Flow.User(); ok {
			greeting = fmt.Sprintf("🌟 ¡Bienvenido %s!", p.FirstName())
		}
		b.WriteString(theme.Title.Render(greeting))
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Render("Elige una actividad para cuidar tus emociones"))
		b.WriteString("\n\n")
		b.WriteString(w.menu.View())
	}

	content := lipgloss.NewStyle().Width(cw).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(content, cw+6))
}
