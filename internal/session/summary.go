package session

import "github.com/emotiquest/emotiquest/internal/emotion"

// Share is one emotion's slice of a session's answers.
type Share struct {
	Emotion string `json:"emocion"`
	Count   int    `json:"cantidad"`
	Percent int    `json:"porcentaje"`
}

// Summary holds the derived results shown on the result screen.
type Summary struct {
	Tally       *emotion.Tally `json:"-"`
	Dominant    string         `json:"emocionPredominante"`
	Total       int            `json:"total"`
	Shares      []Share        `json:"distribucion"`
	Percentages map[string]int `json:"porcentajes"`
}

// Summarize computes counts and rounded percentages over the answers with a
// known emotion. Unknown tags count toward neither numerator nor
// denominator.
func Summarize(s *Session) Summary {
	t := Tally(s.Answers)
	total := t.Total()

	sum := Summary{
		Tally:       t,
		Dominant:    emotion.Dominant(t),
		Total:       total,
		Shares:      make([]Share, 0, t.Len()),
		Percentages: make(map[string]int, t.Len()),
	}
	for _, k := range t.Keys() {
		pct := emotion.Percent(t.Count(k), total)
		sum.Shares = append(sum.Shares, Share{Emotion: k, Count: t.Count(k), Percent: pct})
		sum.Percentages[k] = pct
	}
	return sum
}
