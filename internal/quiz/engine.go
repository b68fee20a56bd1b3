package quiz

import (
	"errors"
	"fmt"

	"github.com/emotiquest/emotiquest/internal/session"
)

// State is the questionnaire phase.
type State int

const (
	StateLoading   State = iota // Waiting for the question list
	StateReady                  // Questions loaded, first question shown
	StateAnswering              // At least one answer recorded
	StateFinished               // Moved past the last question or finished early
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateAnswering:
		return "answering"
	case StateFinished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrNoQuestions   = errors.New("no active questions")
	ErrNotActive     = errors.New("questionnaire is not accepting answers")
	ErrInvalidOption = errors.New("option out of range")
	ErrUnanswered    = errors.New("current question has no answer")

	// ErrConfirmationRequired is returned by Finish when some questions are
	// still unanswered. Call Finish(true) to accept the partial answers.
	ErrConfirmationRequired = errors.New("not every question was answered")
)

// Engine walks a session through an ordered question list. It is the only
// writer of the session's answers.
type Engine struct {
	sess      *session.Session
	questions []Question
	answers   []*session.Answer
	chosen    []int
	index     int
	state     State
	completed bool
}

// NewEngine returns an engine in the Loading state bound to s.
func NewEngine(s *session.Session) *Engine {
	return &Engine{sess: s, state: StateLoading}
}

// Start loads the active questions and moves to Ready at index 0. Answers
// already stored in the session for these questions are kept, so an
// interrupted attempt can resume.
func (e *Engine) Start(questions []Question) error {
	if e.state != StateLoading {
		return fmt.Errorf("start: engine is %s", e.state)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	e.questions = questions
	e.answers = make([]*session.Answer, len(questions))
	e.chosen = make([]int, len(questions))
	for i := range e.chosen {
		e.chosen[i] = -1
	}

	for _, a := range e.sess.Answers {
		for i, q := range questions {
			if q.ID != a.QuestionID {
				continue
			}
			a := a
			e.answers[i] = &a
			for oi, opt := range q.Options {
				if opt.Text == a.Text {
					e.chosen[i] = oi
				}
			}
		}
	}

	e.index = 0
	e.state = StateReady
	if e.Answered() > 0 {
		e.state = StateAnswering
	}
	e.syncSession()
	return nil
}

// State returns the current phase.
func (e *Engine) State() State { return e.state }

// Index returns the current question index.
func (e *Engine) Index() int { return e.index }

// Len returns the number of active questions.
func (e *Engine) Len() int { return len(e.questions) }

// Session returns the bound session.
func (e *Engine) Session() *session.Session { return e.sess }

// Current returns the question at the current index.
func (e *Engine) Current() (Question, bool) {
	if e.index < 0 || e.index >= len(e.questions) {
		return Question{}, false
	}
	return e.questions[e.index], true
}

// Selected returns the chosen option index for the current question, or -1.
func (e *Engine) Selected() int {
	if e.index < 0 || e.index >= len(e.chosen) {
		return -1
	}
	return e.chosen[e.index]
}

// Answered returns how many questions have an answer.
func (e *Engine) Answered() int {
	n := 0
	for _, a := range e.answers {
		if a != nil {
			n++
		}
	}
	return n
}

// IsLast reports whether the current question is the last one.
func (e *Engine) IsLast() bool {
	return e.index == len(e.questions)-1
}

// Answer records option for the current question, replacing any earlier
// answer. It does not advance.
func (e *Engine) Answer(option int) error {
	if e.state != StateReady && e.state != StateAnswering {
		return ErrNotActive
	}
	q, ok := e.Current()
	if !ok {
		return ErrNotActive
	}
	if option < 0 || option >= len(q.Options) {
		return ErrInvalidOption
	}
	opt := q.Options[option]
	e.answers[e.index] = &session.Answer{
		QuestionID: q.ID,
		Question:   q.Text,
		Text:       opt.Text,
		Emotion:    opt.Emotion,
	}
	e.chosen[e.index] = option
	e.state = StateAnswering
	e.syncSession()
	return nil
}

// Advance moves to the next question. The current question must be
// answered. Advancing from the last question finishes the walk.
func (e *Engine) Advance() error {
	if e.state != StateReady && e.state != StateAnswering {
		return ErrNotActive
	}
	if e.answers[e.index] == nil {
		return ErrUnanswered
	}
	if e.IsLast() {
		e.state = StateFinished
		return nil
	}
	e.index++
	return nil
}

// Retreat moves to the previous question. It is a no-op at index 0 and
// outside the answering phases.
func (e *Engine) Retreat() {
	if e.state != StateReady && e.state != StateAnswering {
		return
	}
	if e.index > 0 {
		e.index--
	}
}

// Finish computes the emotion results and marks the session completed.
// With unanswered questions and force unset it returns
// ErrConfirmationRequired and changes nothing.
func (e *Engine) Finish(force bool) error {
	if e.state == StateLoading {
		return ErrNotActive
	}
	if e.completed {
		return nil
	}
	if e.Answered() < len(e.questions) && !force {
		return ErrConfirmationRequired
	}
	e.syncSession()
	e.sess.Complete()
	e.state = StateFinished
	e.completed = true
	return nil
}

// Completed reports whether Finish has run.
func (e *Engine) Completed() bool { return e.completed }

// syncSession copies the recorded answers, in question order, into the
// session.
func (e *Engine) syncSession() {
	out := make([]session.Answer, 0, len(e.answers))
	for _, a := range e.answers {
		if a != nil {
			out = append(out, *a)
		}
	}
	e.sess.Answers = out
}
