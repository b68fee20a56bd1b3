package quiz

import (
	"errors"
	"testing"

	"github.com/emotiquest/emotiquest/internal/session"
)

func threeQuestions() []Question {
	return []Question{
		{ID: 1, Text: "uno", Options: []Option{{Text: "feliz", Emotion: "alegria"}, {Text: "triste", Emotion: "tristeza"}}},
		{ID: 2, Text: "dos", Options: []Option{{Text: "feliz", Emotion: "alegria"}, {Text: "triste", Emotion: "tristeza"}}},
		{ID: 6, Text: "seis", Options: []Option{{Text: "feliz", Emotion: "alegria"}, {Text: "triste", Emotion: "tristeza"}}},
	}
}

func newStartedEngine(t *testing.T) (*Engine, *session.Session) {
	t.Helper()
	s := &session.Session{ID: "EMQ-test", Name: "Ana", Gender: session.GenderFemale, Age: 10, Grade: "5to"}
	e := NewEngine(s)
	if e.State() != StateLoading {
		t.Fatalf("new engine state = %s", e.State())
	}
	if err := e.Start(threeQuestions()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return e, s
}

func TestEngineEndToEnd(t *testing.T) {
	e, s := newStartedEngine(t)
	if e.State() != StateReady || e.Index() != 0 {
		t.Fatalf("after start: state=%s index=%d", e.State(), e.Index())
	}

	for i, opt := range []int{0, 0, 1} {
		if err := e.Answer(opt); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if err := e.Advance(); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	if e.State() != StateFinished {
		t.Fatalf("expected finished after last advance, got %s", e.State())
	}

	if err := e.Finish(false); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !s.Completed || s.Dominant != "alegria" {
		t.Errorf("session not completed correctly: %+v", s)
	}
	if s.EmotionCounts["alegria"] != 2 || s.EmotionCounts["tristeza"] != 1 {
		t.Errorf("counts = %v", s.EmotionCounts)
	}

	sum := session.Summarize(s)
	if sum.Percentages["alegria"] != 67 || sum.Percentages["tristeza"] != 33 {
		t.Errorf("percentages = %v", sum.Percentages)
	}
}

func TestEngineAnswerOverwrites(t *testing.T) {
	e, s := newStartedEngine(t)
	_ = e.Answer(0)
	_ = e.Answer(1)

	if len(s.Answers) != 1 {
		t.Fatalf("expected one answer, got %d", len(s.Answers))
	}
	if s.Answers[0].Emotion != "tristeza" || e.Selected() != 1 {
		t.Errorf("answer not overwritten: %+v", s.Answers[0])
	}
	if e.Index() != 0 {
		t.Error("answer must not auto-advance")
	}
}

func TestEngineAdvanceRequiresAnswer(t *testing.T) {
	e, _ := newStartedEngine(t)
	if err := e.Advance(); !errors.Is(err, ErrUnanswered) {
		t.Fatalf("expected ErrUnanswered, got %v", err)
	}
	if e.Index() != 0 {
		t.Error("index moved without answer")
	}
}

func TestEngineRetreat(t *testing.T) {
	e, s := newStartedEngine(t)
	e.Retreat()
	if e.Index() != 0 {
		t.Fatal("retreat at 0 should be a no-op")
	}

	_ = e.Answer(0)
	_ = e.Advance()
	e.Retreat()
	if e.Index() != 0 {
		t.Fatalf("expected index 0, got %d", e.Index())
	}

	// Re-answering after going back replaces the earlier answer.
	_ = e.Answer(1)
	if len(s.Answers) != 1 || s.Answers[0].Emotion != "tristeza" {
		t.Errorf("answers = %+v", s.Answers)
	}
}

func TestEngineFinishNeedsConfirmation(t *testing.T) {
	e, s := newStartedEngine(t)
	_ = e.Answer(0)

	if err := e.Finish(false); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	if s.Completed {
		t.Fatal("session must not complete without confirmation")
	}

	if err := e.Finish(true); err != nil {
		t.Fatalf("forced finish: %v", err)
	}
	if !s.Completed || s.TotalAnswers != 1 || s.Dominant != "alegria" {
		t.Errorf("session = %+v", s)
	}
	if err := e.Answer(0); !errors.Is(err, ErrNotActive) {
		t.Errorf("answer after finish: %v", err)
	}
}

func TestEngineAnswerCountNeverExceedsQuestions(t *testing.T) {
	e, s := newStartedEngine(t)
	for range 10 {
		_ = e.Answer(0)
		_ = e.Advance()
	}
	if len(s.Answers) > e.Len() {
		t.Fatalf("%d answers for %d questions", len(s.Answers), e.Len())
	}
}

func TestEngineInvalidOption(t *testing.T) {
	e, _ := newStartedEngine(t)
	if err := e.Answer(5); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption, got %v", err)
	}
}

func TestEngineLoadingRejectsActions(t *testing.T) {
	e := NewEngine(&session.Session{ID: "x"})
	if err := e.Answer(0); !errors.Is(err, ErrNotActive) {
		t.Errorf("answer while loading: %v", err)
	}
	if err := e.Finish(true); !errors.Is(err, ErrNotActive) {
		t.Errorf("finish while loading: %v", err)
	}
	if err := e.Start(nil); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("start with no questions: %v", err)
	}
}

func TestEngineResumesStoredAnswers(t *testing.T) {
	s := &session.Session{ID: "x", Answers: []session.Answer{
		{QuestionID: 2, Question: "dos", Text: "triste", Emotion: "tristeza"},
	}}
	e := NewEngine(s)
	if err := e.Start(threeQuestions()); err != nil {
		t.Fatal(err)
	}
	if e.State() != StateAnswering || e.Answered() != 1 {
		t.Fatalf("state=%s answered=%d", e.State(), e.Answered())
	}
	_ = e.Answer(0)
	_ = e.Advance()
	if e.Selected() != 1 {
		t.Errorf("resumed selection = %d, want 1", e.Selected())
	}
}
