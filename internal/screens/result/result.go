// Package result shows the dominant emotion of the finished questionnaire.
package result

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/emotion"
	"github.com/emotiquest/emotiquest/internal/insight"
	"github.com/emotiquest/emotiquest/internal/router"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/screens/feedback"
	"github.com/emotiquest/emotiquest/internal/session"
	"github.com/emotiquest/emotiquest/internal/ui/components"
	"github.com/emotiquest/emotiquest/internal/ui/layout"
	"github.com/emotiquest/emotiquest/internal/ui/theme"
)

// insightMsg carries the generated closing message.
type insightMsg struct {
	insight insight.Insight
}

// ResultScreen shows the dominant emotion, the distribution chart and the
// closing message.
type ResultScreen struct {
	env     *screen.Env
	summary session.Summary
	message insight.Insight
	loading bool
	menu    components.Menu
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.BackHandler = (*ResultScreen)(nil)

// New creates the result screen for a finished session. The catalog
// message is shown until a generated one arrives.
func New(env *screen.Env, summary session.Summary) *ResultScreen {
	r := &ResultScreen{
		env:     env,
		summary: summary,
		loading: env.Insight.Enabled(),
	}
	if s := env.Flow.Session(); s != nil {
		r.message = insight.Fallback(s, env.Flow.Rand())
	}
	r.menu = components.NewMenu([]components.MenuItem{
		{Label: "Calificar mi experiencia", Action: r.rate},
		{Label: "Volver al inicio", Action: r.Back},
	})
	return r
}

// Init requests a generated message when a model is configured.
func (r *ResultScreen) Init() tea.Cmd {
	if !r.loading {
		return nil
	}
	svc := r.env.Insight
	s := r.env.Flow.Session()
	if s == nil {
		r.loading = false
		return nil
	}
	snapshot := *s
	snapshot.Answers = append([]session.Answer(nil), s.Answers...)
	return func() tea.Msg {
		return insightMsg{insight: svc.Generate(context.Background(), &snapshot, nil)}
	}
}

func (r *ResultScreen) Title() string { return "Tus resultados" }

func (r *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Opción"},
		{Key: "Enter", Description: "Elegir"},
		{Key: "Esc", Description: "Inicio"},
	}
}

// Back ends the visit and returns to the menu.
func (r *ResultScreen) Back() tea.Cmd {
	r.env.Flow.Restart(context.Background())
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (r *ResultScreen) rate() tea.Cmd {
	if err := r.env.Flow.OpenRating(); err != nil {
		r.env.Log.Warn("open rating", "error", err)
		return nil
	}
	next := feedback.New(r.env)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (r *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case insightMsg:
		r.loading = false
		r.message = msg.insight
		return r, nil
	case tea.KeyPressMsg:
		var cmd tea.Cmd
		r.menu, cmd = r.menu.Update(msg)
		return r, cmd
	}
	return r, nil
}

// Message returns the closing message currently shown.
func (r *ResultScreen) Message() insight.Insight { return r.message }

func (r *ResultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	key := r.summary.Dominant

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Tu emoción predominante hoy"))
	b.WriteString("\n\n")
	b.WriteString(theme.Emotion(key).Render(fmt.Sprintf("%s  %s", emotion.EmojiOf(key), strings.ToUpper(emotion.NameOf(key)))))
	b.WriteString("\n\n")

	msg := r.message.Text()
	if r.loading {
		msg += "\n\n" + theme.Hint.Render("Preparando un mensaje para ti...")
	}
	b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(msg))
	b.WriteString("\n\n")

	chart := components.BarChart(emotion.ChartData(r.summary.Tally), cw)
	b.WriteString(lipgloss.NewStyle().Align(lipgloss.Left).Render(chart))
	b.WriteString("\n\n")

	var shares []string
	for _, s := range r.summary.Shares {
		shares = append(shares, fmt.Sprintf("%s %d%%", emotion.NameOf(s.Emotion), s.Percent))
	}
	if len(shares) > 0 {
		b.WriteString(theme.Hint.Render(strings.Join(shares, " · ")))
		b.WriteString("\n\n")
	}

	b.WriteString(r.menu.View())

	content := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(content, cw+6))
}
