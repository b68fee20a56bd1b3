// Package insight asks a language model for a short, personalized closing
// message for a finished session. Without a provider, or when the provider
// fails, the catalog message is used instead.
package insight

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/emotiquest/emotiquest/internal/emotion"
	"github.com/emotiquest/emotiquest/internal/llm"
	"github.com/emotiquest/emotiquest/internal/logging"
	"github.com/emotiquest/emotiquest/internal/session"
)

// Purpose tags every insight request in the LLM event log.
const Purpose = "insight"

// Schema is the structured output the model must return.
var Schema = &llm.Schema{
	Name:        "session-insight",
	Description: "Mensaje breve y amable para un estudiante al terminar el cuestionario",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mensaje": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "2-3 oraciones en español que reconocen la emoción predominante",
			},
			"sugerencia": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Una actividad sencilla que el estudiante puede hacer hoy",
			},
		},
		"required":             []any{"mensaje", "sugerencia"},
		"additionalProperties": false,
	},
}

const systemPrompt = `Eres un orientador escolar cálido que habla con estudiantes de primaria y secundaria. Respondes siempre en español, con frases cortas, sin diagnósticos ni lenguaje clínico.`

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used by the app.
func DefaultConfig() Config {
	return Config{MaxTokens: 300, Temperature: 0.7}
}

// Insight is the closing message for one session.
type Insight struct {
	Message    string `json:"mensaje"`
	Suggestion string `json:"sugerencia,omitempty"`

	// Generated is true when the message came from the model.
	Generated bool `json:"generado"`
}

// Text joins the message and the suggestion for display.
func (i Insight) Text() string {
	if i.Suggestion == "" {
		return i.Message
	}
	return i.Message + "\n\n💡 " + i.Suggestion
}

// Service produces insights. A nil provider always falls back.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *logging.Logger
}

// NewService creates an insight service. provider may be nil.
func NewService(provider llm.Provider, cfg Config, log *logging.Logger) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
		log:      logging.OrNop(log).With("component", "insight"),
	}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// Fallback returns the catalog message for sess.
func Fallback(sess *session.Session, rng *rand.Rand) Insight {
	return Insight{Message: emotion.FinalMessage(session.Tally(sess.Answers), rng)}
}

// Generate returns the insight for a finished session. It never fails: any
// provider error is logged and the catalog message is returned.
func (s *Service) Generate(ctx context.Context, sess *session.Session, rng *rand.Rand) Insight {
	if !s.Enabled() {
		return Fallback(sess, rng)
	}
	out, err := s.generate(ctx, sess)
	if err != nil {
		s.log.Warn("insight fallback", "session", sess.ID, "error", err)
		return Fallback(sess, rng)
	}
	return out
}

type insightOutput struct {
	Mensaje    string `json:"mensaje"`
	Sugerencia string `json:"sugerencia"`
}

func (s *Service) generate(ctx context.Context, sess *session.Session) (Insight, error) {
	ctx = llm.WithPurpose(ctx, Purpose)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(sess),
		Schema:      Schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Insight{}, fmt.Errorf("insight generation: %w", err)
	}

	var out insightOutput
	if err := resp.Decode(&out); err != nil {
		return Insight{}, err
	}
	return Insight{
		Message:    strings.TrimSpace(out.Mensaje),
		Suggestion: strings.TrimSpace(out.Sugerencia),
		Generated:  true,
	}, nil
}

func buildPrompt(sess *session.Session) string {
	sum := session.Summarize(sess)

	var b strings.Builder
	fmt.Fprintf(&b, "Edad: %d\n", sess.Age)
	if sess.Grade != "" {
		fmt.Fprintf(&b, "Grado: %s\n", sess.Grade)
	}
	fmt.Fprintf(&b, "Resultado: %s\n", sum.Dominant)
	b.WriteString("\nDistribución de respuestas:\n")
	if len(sum.Shares) == 0 {
		b.WriteString("Sin respuestas\n")
	}
	for _, sh := range sum.Shares {
		fmt.Fprintf(&b, "- %s: %d (%d%%)\n", emotion.NameOf(sh.Emotion), sh.Count, sh.Percent)
	}

	b.WriteString(`
Instrucciones:
1. Escribe un mensaje de 2-3 oraciones que reconozca la emoción predominante sin juzgarla.
2. Propón una sugerencia concreta y breve que el estudiante pueda hacer hoy.
3. No uses el nombre del estudiante ni datos personales.`)
	return b.String()
}
