// Package quiz loads the question bank, picks the questions for the day and
// drives a student through them.
package quiz

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/emotiquest/emotiquest/internal/schemacheck"
)

// Condition restricts the weekdays on which a question is shown.
type Condition string

const (
	Always Condition = "siempre"
	Monday Condition = "lunes"
	Friday Condition = "viernes"
)

// PinnedQuestionID is always asked last when present in the bank.
const PinnedQuestionID = 6

// ErrBankUnavailable is returned when the question bank cannot be read or
// decoded. The questionnaire cannot start without it.
var ErrBankUnavailable = errors.New("question bank unavailable")

// Option is one answer choice with its emotion tag.
type Option struct {
	Text    string `json:"texto"`
	Emotion string `json:"emocion"`
}

// Question is a single bank entry.
type Question struct {
	ID        int       `json:"id"`
	Text      string    `json:"pregunta"`
	Condition Condition `json:"condicion"`
	Options   []Option  `json:"opciones"`
}

//go:embed data/preguntas.json
var defaultBank []byte

var bankSchema = map[string]any{
	"type":     "array",
	"minItems": 1,
	"items": map[string]any{
		"type":     "object",
		"required": []string{"id", "pregunta", "condicion", "opciones"},
		"properties": map[string]any{
			"id":        map[string]any{"type": "integer"},
			"pregunta":  map[string]any{"type": "string", "minLength": 1},
			"condicion": map[string]any{"enum": []string{"siempre", "lunes", "viernes"}},
			"opciones": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"texto", "emocion"},
					"properties": map[string]any{
						"texto":   map[string]any{"type": "string"},
						"emocion": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

// DefaultBank returns the bank compiled into the binary.
func DefaultBank() ([]Question, error) {
	return ParseBank(defaultBank)
}

// LoadBankFile reads and validates a bank from disk. An empty path selects
// the embedded bank.
func LoadBankFile(path string) ([]Question, error) {
	if path == "" {
		return DefaultBank()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankUnavailable, err)
	}
	defer f.Close()
	return LoadBank(f)
}

// LoadBank reads and validates a bank from r.
func LoadBank(r io.Reader) ([]Question, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankUnavailable, err)
	}
	return ParseBank(data)
}

// ParseBank validates data against the bank schema and decodes it. The bank
// is rejected as a whole on any error.
func ParseBank(data []byte) ([]Question, error) {
	if err := schemacheck.Validate("question-bank", bankSchema, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankUnavailable, err)
	}
	var bank []Question
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankUnavailable, err)
	}
	seen := make(map[int]bool, len(bank))
	for _, q := range bank {
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: duplicate question id %d", ErrBankUnavailable, q.ID)
		}
		seen[q.ID] = true
	}
	return bank, nil
}
