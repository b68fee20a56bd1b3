// Package rating handles the satisfaction form shown after the result
// screen.
package rating

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/emotiquest/emotiquest/internal/session"
	"github.com/emotiquest/emotiquest/internal/validation"
)

// WouldReturn is the answer to "would you use EmotiQuest again".
type WouldReturn string

const (
	ReturnYes   WouldReturn = "si"
	ReturnMaybe WouldReturn = "tal-vez"
	ReturnNo    WouldReturn = "no"
)

// Choices lists the accepted WouldReturn values in form order.
var Choices = []WouldReturn{ReturnYes, ReturnMaybe, ReturnNo}

// Valid reports whether w is an accepted value.
func (w WouldReturn) Valid() bool {
	return w == ReturnYes || w == ReturnMaybe || w == ReturnNo
}

// Label returns the form label for w.
func (w WouldReturn) Label() string {
	switch w {
	case ReturnYes:
		return "Sí"
	case ReturnMaybe:
		return "Tal vez"
	case ReturnNo:
		return "No"
	}
	return string(w)
}

const (
	MinStars = 1
	MaxStars = 5

	// MaxCommentLength bounds the free-text comments, in runes.
	MaxCommentLength = 500

	// NoDominant is stored when the rated session has no dominant emotion.
	NoDominant = "No disponible"

	MsgStars  = "Por favor, selecciona una calificación de estrellas."
	MsgReturn = "Por favor, indica si volverías a usar EmotiQuest."
)

var labels = map[int]string{
	1: "😞 Muy insatisfecho",
	2: "😕 Insatisfecho",
	3: "😐 Neutral",
	4: "😊 Satisfecho",
	5: "🤩 Muy satisfecho",
}

// Label describes a star count.
func Label(stars int) string {
	if l, ok := labels[stars]; ok {
		return l
	}
	return "Selecciona una calificación"
}

// Rating is one submitted feedback form. It is never modified after
// creation.
type Rating struct {
	ID          string         `json:"id"`
	SessionID   string         `json:"sesionId"`
	Date        string         `json:"fecha"`
	Time        string         `json:"hora"`
	Age         int            `json:"edad"`
	Gender      session.Gender `json:"genero"`
	Grade       string         `json:"grado"`
	Dominant    string         `json:"emocionPredominante"`
	Stars       int            `json:"rating"`
	WouldReturn WouldReturn    `json:"volveria"`
	Comments    string         `json:"comentarios"`
}

// Input is the raw form data.
type Input struct {
	Stars       int
	WouldReturn WouldReturn
	Comments    string
}

// Validate checks the stars and would-return fields.
func Validate(in Input) error {
	verr := &validation.Error{}
	if in.Stars < MinStars || in.Stars > MaxStars {
		verr.Add("rating", MsgStars)
	}
	if !in.WouldReturn.Valid() {
		verr.Add("volveria", MsgReturn)
	}
	return verr.Err()
}

// NewID returns an identifier of the form CAL-<unix ms>-<0..999>.
func NewID(now time.Time, rng *rand.Rand) string {
	var n int
	if rng == nil {
		n = rand.IntN(1000)
	} else {
		n = rng.IntN(1000)
	}
	return fmt.Sprintf("CAL-%d-%d", now.UnixMilli(), n)
}

// New validates in and builds a Rating for s. Profile fields and the
// dominant emotion are copied from the session.
func New(s *session.Session, in Input, now time.Time, rng *rand.Rand) (Rating, error) {
	if s == nil {
		return Rating{}, fmt.Errorf("rating: no session")
	}
	if err := Validate(in); err != nil {
		return Rating{}, err
	}
	dominant := s.Dominant
	if dominant == "" {
		dominant = NoDominant
	}
	return Rating{
		ID:          NewID(now, rng),
		SessionID:   s.ID,
		Date:        now.Format(session.DateLayout),
		Time:        now.Format(session.TimeLayout),
		Age:         s.Age,
		Gender:      s.Gender,
		Grade:       s.Grade,
		Dominant:    dominant,
		Stars:       in.Stars,
		WouldReturn: in.WouldReturn,
		Comments:    CleanComments(in.Comments),
	}, nil
}

// CleanComments trims surrounding space and truncates to MaxCommentLength
// runes.
func CleanComments(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxCommentLength {
		return s
	}
	return string([]rune(s)[:MaxCommentLength])
}

// Check validates a rating read back from storage.
func (r Rating) Check() error {
	if r.ID == "" {
		return validation.New("id", "required")
	}
	return Validate(Input{Stars: r.Stars, WouldReturn: r.WouldReturn})
}

// Summary aggregates a list of ratings.
type Summary struct {
	Total            int                 `json:"total"`
	AverageStars     float64             `json:"promedioEstrellas"`
	PercentReturnYes int                 `json:"porcentajeVolveria"`
	ByStars          [MaxStars + 1]int   `json:"-"`
	ByReturn         map[WouldReturn]int `json:"volveria"`
}

// Aggregate computes the average star count (one decimal) and the share of
// "si" answers (rounded percent).
func Aggregate(ratings []Rating) Summary {
	sum := Summary{
		Total:    len(ratings),
		ByReturn: make(map[WouldReturn]int, len(Choices)),
	}
	if len(ratings) == 0 {
		return sum
	}
	stars := 0
	for _, r := range ratings {
		stars += r.Stars
		if r.Stars >= MinStars && r.Stars <= MaxStars {
			sum.ByStars[r.Stars]++
		}
		sum.ByReturn[r.WouldReturn]++
	}
	sum.AverageStars = math.Round(float64(stars)/float64(len(ratings))*10) / 10
	sum.PercentReturnYes = int(math.Round(float64(sum.ByReturn[ReturnYes]) / float64(len(ratings)) * 100))
	return sum
}
