// Package questionnaire walks the student through the day's questions.
package questionnaire

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/emotiquest/emotiquest/internal/quiz"
	"github.com/emotiquest/emotiquest/internal/router"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/screens/result"
	"github.com/emotiquest/emotiquest/internal/ui/components"
	"github.com/emotiquest/emotiquest/internal/ui/layout"
)

// QuestionnaireScreen shows one question at a time. Answers are saved as
// soon as they are picked so the visit can be resumed later.
type QuestionnaireScreen struct {
	env     *screen.Env
	engine  *quiz.Engine
	list    components.OptionList
	err     error
	notice  string
	confirm bool
}

var _ screen.Screen = (*QuestionnaireScreen)(nil)
var _ screen.BackHandler = (*QuestionnaireScreen)(nil)

// New starts the questionnaire for the current session. A start failure is
// kept and shown; see Err.
func New(env *screen.Env) *QuestionnaireScreen {
	q := &QuestionnaireScreen{env: env}
	q.engine, q.err = env.Flow.StartQuiz(context.Background())
	if q.err != nil {
		env.Log.Error("start questionnaire", "error", q.err)
		return q
	}
	q.syncList()
	return q
}

// Err reports why the questionnaire could not start.
func (q *QuestionnaireScreen) Err() error { return q.err }

func (q *QuestionnaireScreen) Init() tea.Cmd { return nil }

func (q *QuestionnaireScreen) Title() string { return "Cuestionario" }

func (q *QuestionnaireScreen) KeyHints() []layout.KeyHint {
	if q.confirm {
		return []layout.KeyHint{
			{Key: "s", Description: "Terminar"},
			{Key: "n", Description: "Seguir respondiendo"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓/a-d", Description: "Opción"},
		{Key: "Enter", Description: "Responder"},
		{Key: "←/→", Description: "Anterior/Siguiente"},
		{Key: "f", Description: "Terminar"},
		{Key: "Esc", Description: "Pausar"},
	}
}

// Back closes the finish prompt, or pauses the visit. Answers already
// given stay saved.
func (q *QuestionnaireScreen) Back() tea.Cmd {
	if q.confirm {
		q.confirm = false
		return nil
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// syncList rebuilds the option list for the current question.
func (q *QuestionnaireScreen) syncList() {
	cur, ok := q.engine.Current()
	if !ok {
		return
	}
	opts := make([]string, len(cur.Options))
	for i, o := range cur.Options {
		opts[i] = o.Text
	}
	q.list = components.NewOptionList(cur.Text, opts, q.engine.Selected())
}

func (q *QuestionnaireScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || q.engine == nil {
		return q, nil
	}

	if q.confirm {
		switch kmsg.String() {
		case "s", "y", "enter":
			q.confirm = false
			return q, q.finish(true)
		case "n":
			q.confirm = false
		}
		return q, nil
	}

	q.notice = ""
	switch kmsg.String() {
	case "enter", "space":
		return q, q.answer()
	case "right", "n":
		return q, q.next()
	case "left", "p":
		q.env.Flow.Retreat()
		q.syncList()
	case "f":
		return q, q.finish(false)
	default:
		var cmd tea.Cmd
		q.list, cmd = q.list.Update(msg)
		return q, cmd
	}
	return q, nil
}

// answer records the highlighted option, then moves on.
func (q *QuestionnaireScreen) answer() tea.Cmd {
	if err := q.env.Flow.Answer(context.Background(), q.list.Cursor); err != nil {
		q.env.Log.Warn("answer rejected", "error", err)
		q.notice = "No se pudo registrar tu respuesta."
		return nil
	}
	q.list.Chosen = q.list.Cursor
	return q.next()
}

// next advances, finishing after the last question.
func (q *QuestionnaireScreen) next() tea.Cmd {
	if q.engine.IsLast() {
		if q.engine.Selected() < 0 {
			q.notice = "Elige una opción para continuar."
			return nil
		}
		return q.finish(false)
	}
	if err := q.env.Flow.Advance(); err != nil {
		if errors.Is(err, quiz.ErrUnanswered) {
			q.notice = "Elige una opción para continuar."
		}
		return nil
	}
	q.syncList()
	return nil
}

func (q *QuestionnaireScreen) finish(force bool) tea.Cmd {
	sum, err := q.env.Flow.Finish(context.Background(), force)
	switch {
	case errors.Is(err, quiz.ErrConfirmationRequired):
		q.confirm = true
		return nil
	case err != nil:
		q.env.Log.Error("finish questionnaire", "error", err)
		q.notice = "No se pudieron guardar tus resultados. Intenta de nuevo."
		return nil
	}
	next := result.New(q.env, sum)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}
