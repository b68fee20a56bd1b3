package emotion

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Tally counts emotion keys while remembering the order in which each key
// was first seen. The order decides ties in Dominant.
type Tally struct {
	order  []string
	counts map[string]int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add increments the count for key.
func (t *Tally) Add(key string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// Count returns the count for key.
func (t *Tally) Count(key string) int {
	if t == nil {
		return 0
	}
	return t.counts[key]
}

// Keys returns the counted keys in first-seen order.
func (t *Tally) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of distinct keys.
func (t *Tally) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Total returns the sum of all counts.
func (t *Tally) Total() int {
	if t == nil {
		return 0
	}
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Map returns a copy of the counts keyed by emotion.
func (t *Tally) Map() map[string]int {
	out := make(map[string]int, t.Len())
	if t == nil {
		return out
	}
	for k, c := range t.counts {
		out[k] = c
	}
	return out
}

// Dominant returns the key with the strictly greatest count. When two keys
// share the top count the one seen first wins. An empty tally yields
// DefaultDominant.
func Dominant(t *Tally) string {
	if t.Len() == 0 {
		return DefaultDominant
	}
	best, top := "", 0
	for _, k := range t.order {
		if c := t.counts[k]; c > top {
			best, top = k, c
		}
	}
	return best
}

// Percent returns round(count/total*100), or 0 when total is 0.
func Percent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// FinalMessage builds the closing message shown on the result screen.
func FinalMessage(t *Tally, rng *rand.Rand) string {
	key := Dominant(t)
	pct := Percent(t.Count(key), t.Total())
	return fmt.Sprintf("%s %s\n\nTu emoción predominante es %s (%d%% de tus respuestas).",
		EmojiOf(key), RandomMessage(key, rng), NameOf(key), pct)
}

// ChartRow is one bar of an emotion chart.
type ChartRow struct {
	Key   string `json:"key"`
	Name  string `json:"emocion"`
	Count int    `json:"cantidad"`
	Color string `json:"color"`
	Emoji string `json:"emoji"`
}

// ChartData turns a tally into chart rows in first-seen order. Keys missing
// from the catalog are skipped.
func ChartData(t *Tally) []ChartRow {
	rows := make([]ChartRow, 0, t.Len())
	for _, k := range t.Keys() {
		e, ok := Lookup(k)
		if !ok {
			continue
		}
		rows = append(rows, ChartRow{
			Key:   k,
			Name:  e.Name,
			Count: t.Count(k),
			Color: e.Color,
			Emoji: e.Emoji,
		})
	}
	return rows
}
