// Package login is the identity step: the student enters a name, gender,
// age and grade before the visit starts. An unfinished questionnaire can be
// resumed from here.
package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/flow"
	"github.com/emotiquest/emotiquest/internal/router"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/screens/avatar"
	"github.com/emotiquest/emotiquest/internal/screens/instructions"
	"github.com/emotiquest/emotiquest/internal/screens/questionnaire"
	"github.com/emotiquest/emotiquest/internal/session"
	"github.com/emotiquest/emotiquest/internal/ui/components"
	"github.com/emotiquest/emotiquest/internal/ui/layout"
	"github.com/emotiquest/emotiquest/internal/ui/theme"
	"github.com/emotiquest/emotiquest/internal/validation"
)

type field int

const (
	fieldName field = iota
	fieldGender
	fieldAge
	fieldGrade
	fieldSubmit
	fieldCount
)

// LoginScreen collects the student profile.
type LoginScreen struct {
	env *screen.Env

	name   components.TextInput
	gender components.Choice
	age    components.TextInput
	grade  components.Choice
	focus  field

	errs    *validation.Error
	failure string

	// pending is the unfinished session offered for resuming.
	pending *session.Session
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the login form.
func New(env *screen.Env) *LoginScreen {
	genders := make([]string, len(session.Genders))
	for i, g := range session.Genders {
		genders[i] = g.Label()
	}

	l := &LoginScreen{
		env:    env,
		name:   components.NewTextInput("Tu nombre", false, 60),
		gender: components.NewChoice(genders),
		age:    components.NewTextInput("Edad", true, 3),
		grade:  components.NewChoice(session.Grades),
	}
	l.age.Blur()

	if s, ok := env.Flow.Pending(context.Background()); ok {
		l.pending = s
	}
	return l
}

func (l *LoginScreen) Init() tea.Cmd {
	if l.pending != nil {
		return nil
	}
	return l.name.Focus()
}

func (l *LoginScreen) Title() string {
	return "¿Quién eres?"
}

func (l *LoginScreen) KeyHints() []layout.KeyHint {
	if l.pending != nil {
		return []layout.KeyHint{
			{Key: "s", Description: "Continuar"},
			{Key: "n", Description: "Empezar de nuevo"},
			{Key: "Esc", Description: "Volver"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Campo"},
		{Key: "←/→", Description: "Elegir"},
		{Key: "Enter", Description: "Continuar"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return l, l.updateFocused(msg)
	}

	if l.pending != nil {
		return l, l.handlePending(kmsg)
	}

	switch kmsg.String() {
	case "tab", "down":
		return l, l.setFocus((l.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return l, l.setFocus((l.focus + fieldCount - 1) % fieldCount)
	case "enter":
		if l.focus == fieldSubmit {
			return l, l.submit()
		}
		return l, l.setFocus(l.focus + 1)
	}
	return l, l.updateFocused(msg)
}

func (l *LoginScreen) handlePending(kmsg tea.KeyPressMsg) tea.Cmd {
	switch kmsg.String() {
	case "s", "y", "enter":
		step, err := l.env.Flow.Resume(context.Background())
		if err != nil {
			l.pending = nil
			l.failure = "No se encontró el cuestionario anterior."
			return l.name.Focus()
		}
		next := ScreenFor(l.env, step)
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	case "n":
		l.pending = nil
		return l.name.Focus()
	}
	return nil
}

// ScreenFor returns the visit screen that continues from step.
func ScreenFor(env *screen.Env, step flow.Step) screen.Screen {
	switch step {
	case flow.StepInstructions:
		return instructions.New(env).WithBack(func() screen.Screen { return avatar.New(env) })
	case flow.StepQuiz:
		return questionnaire.New(env)
	default:
		return avatar.New(env)
	}
}

func (l *LoginScreen) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch l.focus {
	case fieldName:
		l.name, cmd = l.name.Update(msg)
	case fieldGender:
		l.gender, cmd = l.gender.Update(msg)
	case fieldAge:
		l.age, cmd = l.age.Update(msg)
	case fieldGrade:
		l.grade, cmd = l.grade.Update(msg)
	}
	return cmd
}

func (l *LoginScreen) setFocus(f field) tea.Cmd {
	l.focus = f
	l.name.Blur()
	l.age.Blur()
	l.gender.Focused = f == fieldGender
	l.grade.Focused = f == fieldGrade

	switch f {
	case fieldName:
		return l.name.Focus()
	case fieldAge:
		return l.age.Focus()
	}
	return nil
}

// input gathers the form into a profile. An empty or non-numeric age is
// reported by validation as out of range.
func (l *LoginScreen) input() session.ProfileInput {
	in := session.ProfileInput{
		Name:  l.name.Value(),
		Grade: l.grade.Value(),
	}
	if l.gender.Selected >= 0 {
		in.Gender = session.Genders[l.gender.Selected]
	}
	if n, err := l.age.NumericValue(); err == nil {
		in.Age = n
	}
	return in
}

func (l *LoginScreen) submit() tea.Cmd {
	l.errs = nil
	l.failure = ""

	err := l.env.Flow.Login(context.Background(), l.input())
	if err != nil {
		if verr, ok := validation.As(err); ok {
			l.errs = verr
			return l.setFocus(l.firstInvalid())
		}
		l.env.Log.Error("login failed", "error", err)
		l.failure = "No se pudo iniciar la sesión. Intenta de nuevo."
		if errors.Is(err, flow.ErrPersist) {
			l.failure = "No se pudo guardar tu información. Intenta de nuevo."
		}
		return nil
	}

	next := avatar.New(l.env)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (l *LoginScreen) firstInvalid() field {
	for f, key := range []string{"nombre", "genero", "edad", "grado"} {
		if l.errs.Has(key) {
			return field(f)
		}
	}
	return fieldSubmit
}

func (l *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if l.pending != nil {
		return l.viewPending(cw, width, height)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw - 6).Render("¡Hola! Cuéntanos sobre ti"))
	b.WriteString("\n\n")

	l.writeField(&b, "Nombre", "nombre", l.focus == fieldName, l.name.View())
	l.writeField(&b, "Género", "genero", l.focus == fieldGender, l.gender.View())
	l.writeField(&b, "Edad", "edad", l.focus == fieldAge, l.age.View())
	l.writeField(&b, "Escolaridad", "grado", l.focus == fieldGrade, lipgloss.NewStyle().Width(cw-6).Render(l.grade.View()))

	btn := components.NewButton("Continuar", l.focus == fieldSubmit, nil)
	b.WriteString(btn.View())

	if l.failure != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Render(l.failure))
	}

	content := lipgloss.NewStyle().Width(cw).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(content, cw+6))
}

func (l *LoginScreen) writeField(b *strings.Builder, label, key string, focused bool, view string) {
	style := theme.Unselected
	marker := "  "
	if focused {
		style = theme.Selected
		marker = "▸ "
	}
	b.WriteString(style.Render(marker + label))
	b.WriteString("\n  ")
	b.WriteString(view)
	b.WriteString("\n")
	if l.errs != nil && l.errs.Has(key) {
		b.WriteString("  ")
		b.WriteString(theme.ErrorText.Render(l.errs.Message(key)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (l *LoginScreen) viewPending(cw, width, height int) string {
	lines := []string{
		theme.Title.Render("Tienes un cuestionario sin terminar"),
		"",
		theme.Body.Render("Hola " + l.pending.Name + ", ¿quieres continuar donde te quedaste?"),
		"",
		theme.Hint.Render("s = continuar · n = empezar de nuevo"),
	}
	content := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(content, cw+6))
}
