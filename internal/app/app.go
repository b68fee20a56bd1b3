package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/router"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/screens/home"
	"github.com/emotiquest/emotiquest/internal/screens/welcome"
	"github.com/emotiquest/emotiquest/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env    *screen.Env
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the welcome screen, which
// hands over to the home menu.
func newAppModel(env *screen.Env) AppModel {
	start := welcome.New(func() screen.Screen { return home.New(env) })
	return AppModel{
		env:    env,
		router: router.New(start),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok {
				return m, bh.Back()
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// who is the header badge for the student on the current visit.
func (m AppModel) who() string {
	p, ok := m.env.Flow.User()
	s := m.env.Flow.Session()
	if !ok || s == nil {
		return ""
	}
	if s.Avatar != nil {
		return s.Avatar.Emoji + " " + p.FirstName() + "  "
	}
	return p.FirstName() + "  "
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the header, the active screen and the footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.who(), m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(hp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Salir"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Volver"},
			{Key: "Ctrl+C", Description: "Salir"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navegar"},
			{Key: "Enter", Description: "Elegir"},
			{Key: "Ctrl+C", Description: "Salir"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(env *screen.Env) error {
	env.Log.Info("tui started", "version", env.Version)
	p := tea.NewProgram(newAppModel(env))
	_, err := p.Run()
	if err != nil {
		env.Log.Error("tui stopped", "error", err)
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	env.Log.Info("tui stopped")
	return nil
}
