package quiz

import (
	"math/rand/v2"
	"time"
)

// Eligible reports whether q is shown on weekday.
func (q Question) Eligible(weekday time.Weekday) bool {
	switch q.Condition {
	case Always:
		return true
	case Monday:
		return weekday == time.Monday
	case Friday:
		return weekday == time.Friday
	}
	return false
}

// SelectActive returns the questions for weekday in the order they will be
// asked. Eligible questions are shuffled with a Fisher–Yates permutation and
// the pinned question, when present, is appended last whatever its own
// condition says.
func SelectActive(bank []Question, weekday time.Weekday, rng *rand.Rand) []Question {
	var pinned *Question
	active := make([]Question, 0, len(bank))
	for i := range bank {
		q := bank[i]
		if q.ID == PinnedQuestionID {
			pinned = &q
			continue
		}
		if q.Eligible(weekday) {
			active = append(active, q)
		}
	}

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for i := len(active) - 1; i > 0; i-- {
		j := intN(i + 1)
		active[i], active[j] = active[j], active[i]
	}

	if pinned != nil {
		active = append(active, *pinned)
	}
	return active
}
