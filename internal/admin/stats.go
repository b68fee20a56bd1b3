// Package admin is the read and reporting layer over the stored session and
// rating history: filters, dashboard statistics, and snapshot export and
// import.
package admin

import (
	"math"
	"time"

	"github.com/emotiquest/emotiquest/internal/emotion"
	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/session"
)

// Filter selects sessions by exact match. Zero-valued fields are ignored;
// the others are combined with AND.
type Filter struct {
	Date    string
	Emotion string
	Age     int
	Gender  session.Gender
}

// IsZero reports whether no criterion is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Match reports whether s satisfies every set criterion.
func (f Filter) Match(s session.Session) bool {
	if f.Date != "" && s.Date != f.Date {
		return false
	}
	if f.Emotion != "" && s.Dominant != f.Emotion {
		return false
	}
	if f.Age != 0 && s.Age != f.Age {
		return false
	}
	if f.Gender != "" && s.Gender != f.Gender {
		return false
	}
	return true
}

// FilterSessions returns the sessions matching f, preserving order.
func FilterSessions(history []session.Session, f Filter) []session.Session {
	out := make([]session.Session, 0, len(history))
	for _, s := range history {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// Today returns the local calendar date of now in stored format.
func Today(now time.Time) string {
	return now.Local().Format(session.DateLayout)
}

// Stats are the dashboard headline numbers.
type Stats struct {
	Total      int    `json:"total"`
	TodayCount int    `json:"hoy"`
	Dominant   string `json:"emocionPredominante"`
	AverageAge int    `json:"edadPromedio"`
}

// Aggregate computes the headline numbers over history. today is the
// caller's local date (see Today). Dominant applies the first-seen-wins rule
// to the sessions' dominant emotions and is empty for an empty history.
func Aggregate(history []session.Session, today string) Stats {
	st := Stats{Total: len(history)}
	if len(history) == 0 {
		return st
	}
	ages := 0
	t := emotion.NewTally()
	for _, s := range history {
		if s.Date == today {
			st.TodayCount++
		}
		ages += s.Age
		if s.Dominant != "" {
			t.Add(s.Dominant)
		}
	}
	if t.Len() > 0 {
		st.Dominant = emotion.Dominant(t)
	}
	st.AverageAge = int(math.Round(float64(ages) / float64(len(history))))
	return st
}

// AggregateRatings summarizes the ratings history.
func AggregateRatings(ratings []rating.Rating) rating.Summary {
	return rating.Aggregate(ratings)
}

// EmotionDistribution counts sessions per dominant emotion for the dashboard
// chart.
func EmotionDistribution(history []session.Session) []emotion.ChartRow {
	t := emotion.NewTally()
	for _, s := range history {
		if s.Dominant != "" {
			t.Add(s.Dominant)
		}
	}
	return emotion.ChartData(t)
}

// Slice is one emotion's share of a single session's answers.
type Slice struct {
	Emotion string  `json:"emocion"`
	Name    string  `json:"nombre"`
	Emoji   string  `json:"emoji"`
	Count   int     `json:"cantidad"`
	Percent float64 `json:"porcentaje"`
}

// ResponseDistribution breaks one session's answers down by emotion with one
// decimal of precision, for the session detail view.
func ResponseDistribution(s session.Session) []Slice {
	t := session.Tally(s.Answers)
	total := t.Total()
	out := make([]Slice, 0, t.Len())
	for _, k := range t.Keys() {
		out = append(out, Slice{
			Emotion: k,
			Name:    emotion.NameOf(k),
			Emoji:   emotion.EmojiOf(k),
			Count:   t.Count(k),
			Percent: math.Round(float64(t.Count(k))/float64(total)*1000) / 10,
		})
	}
	return out
}

// FindSession returns the session with id.
func FindSession(history []session.Session, id string) (session.Session, bool) {
	for _, s := range history {
		if s.ID == id {
			return s, true
		}
	}
	return session.Session{}, false
}
