package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/emotiquest/emotiquest/internal/admin"
	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/router"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/screens/dashboard"
	"github.com/emotiquest/emotiquest/internal/screens/login"
	wellnessscreen "github.com/emotiquest/emotiquest/internal/screens/wellness"
	"github.com/emotiquest/emotiquest/internal/ui/components"
)

type homeStats struct {
	total    int
	today    int
	ratings  int
	avgStars float64
}

// HomeScreen is the main menu. It stays at the bottom of the router stack;
// every visit and tool is pushed on top of it.
type HomeScreen struct {
	env     *screen.Env
	menu    components.Menu
	stats   homeStats
	variant MascotVariant
	pending string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	items := []components.MenuItem{
		{Label: "COMENZAR", Action: push(func() screen.Screen { return login.New(env) })},
		{Label: "RUTAS DE BIENESTAR", Action: push(func() screen.Screen { return wellnessscreen.New(env) })},
		{Label: "PANEL DE ADMINISTRACIÓN", Action: push(func() screen.Screen { return dashboard.New(env) })},
		{Label: "SALIR", Action: func() tea.Cmd { return tea.Quit }},
	}

	h := &HomeScreen{
		env:  env,
		menu: components.NewMenu(items),
	}
	h.load()
	return h
}

// load reads the headline numbers and the pending-session note.
func (h *HomeScreen) load() {
	ctx := context.Background()
	history := h.env.Store.LoadHistory(ctx)
	st := admin.Aggregate(history, admin.Today(time.Now()))
	sum := rating.Aggregate(h.env.Store.LoadRatings(ctx))

	h.stats = homeStats{
		total:    st.Total,
		today:    st.TodayCount,
		ratings:  sum.Total,
		avgStars: sum.AverageStars,
	}

	last := ""
	if n := len(history); n > 0 {
		last = history[n-1].Dominant
	}
	h.variant = VariantFor(last)

	h.pending = ""
	if s, ok := h.env.Flow.Pending(ctx); ok {
		h.pending = s.Name
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Refresh reloads the numbers after a visit or tool is closed.
func (h *HomeScreen) Refresh() tea.Cmd {
	h.load()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.variant, cw))
	}
	sections = append(sections, renderStatsBar(h.stats, cw, compact))
	if h.pending != "" {
		sections = append(sections, renderPendingNote(h.pending, cw))
	}
	sections = append(sections, renderMenu(h.menu.Labels(), h.menu.Selected, cw, compact))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Inicio"
}
