// Package session models a student's questionnaire attempt: the profile
// collected at login, the answers, and the derived emotion results.
package session

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/emotiquest/emotiquest/internal/emotion"
	"github.com/emotiquest/emotiquest/internal/validation"
)

const (
	// DateLayout is the stored calendar date format (local time).
	DateLayout = "2006-01-02"

	// TimeLayout is the stored wall-clock format (local time).
	TimeLayout = "15:04"

	idPrefix = "EMQ"
)

// Answer is the option a student picked for one question.
type Answer struct {
	QuestionID int    `json:"preguntaId"`
	Question   string `json:"pregunta"`
	Text       string `json:"texto"`
	Emotion    string `json:"emocion"`
}

// Avatar is the picture chosen after login.
type Avatar struct {
	ID    string `json:"id"`
	Path  string `json:"ruta"`
	Emoji string `json:"emoji"`
}

// Session is one questionnaire attempt. Dominant is empty until the
// questionnaire finishes.
type Session struct {
	ID        string   `json:"id"`
	Name      string   `json:"nombre"`
	Gender    Gender   `json:"genero"`
	Age       int      `json:"edad"`
	Grade     string   `json:"grado"`
	Date      string   `json:"fecha"`
	Time      string   `json:"hora"`
	Answers   []Answer `json:"respuestas"`
	Completed bool     `json:"completada"`
	Dominant  string   `json:"emocionPredominante"`
	Avatar    *Avatar  `json:"avatar,omitempty"`

	InstructionsViewed bool   `json:"instruccionesVistas,omitempty"`
	InstructionsAt     string `json:"timestampInstrucciones,omitempty"`

	EmotionCounts map[string]int `json:"conteoEmociones,omitempty"`
	TotalAnswers  int            `json:"totalRespuestas,omitempty"`
}

// NewID returns an identifier of the form EMQ-YYYYMMDD-HHMM-rrr. The random
// suffix makes collisions unlikely, not impossible.
func NewID(now time.Time, rng *rand.Rand) string {
	var n int
	if rng == nil {
		n = rand.IntN(1000)
	} else {
		n = rng.IntN(1000)
	}
	return fmt.Sprintf("%s-%s-%s-%03d", idPrefix, now.Format("20060102"), now.Format("1504"), n)
}

// New starts an empty, incomplete session for profile.
func New(p Profile, now time.Time) *Session {
	return &Session{
		ID:      p.ID,
		Name:    p.Name,
		Gender:  p.Gender,
		Age:     p.Age,
		Grade:   p.Grade,
		Date:    now.Format(DateLayout),
		Time:    now.Format(TimeLayout),
		Answers: []Answer{},
	}
}

// Tally counts the answers whose emotion exists in the catalog, in answer
// order. Unknown tags are dropped.
func Tally(answers []Answer) *emotion.Tally {
	t := emotion.NewTally()
	for _, a := range answers {
		if emotion.Known(a.Emotion) {
			t.Add(a.Emotion)
		}
	}
	return t
}

// Complete computes the tally and dominant emotion from the current answers
// and marks the session completed.
func (s *Session) Complete() {
	t := Tally(s.Answers)
	s.EmotionCounts = t.Map()
	s.Dominant = emotion.Dominant(t)
	s.TotalAnswers = len(s.Answers)
	s.Completed = true
}

// SetAvatar stores the chosen avatar.
func (s *Session) SetAvatar(a Avatar) {
	s.Avatar = &a
}

// MarkInstructionsViewed records when the instructions were shown.
func (s *Session) MarkInstructionsViewed(now time.Time) {
	s.InstructionsViewed = true
	s.InstructionsAt = now.UTC().Format(time.RFC3339)
}

// Check validates a session read back from storage.
func (s *Session) Check() error {
	verr := &validation.Error{}
	if s.ID == "" {
		verr.Add("id", "required")
	}
	if s.Completed && s.Dominant == "" {
		verr.Add("emocionPredominante", "required for a completed session")
	}
	if s.Age < 0 {
		verr.Add("edad", "negative")
	}
	return verr.Err()
}
