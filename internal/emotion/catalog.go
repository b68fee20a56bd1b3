// Package emotion holds the static emotion catalog and the counting rules
// shared by the questionnaire, the result screen and the admin dashboard.
package emotion

import "math/rand/v2"

const (
	// DefaultColor is returned for keys missing from the catalog.
	DefaultColor = "#cccccc"

	// DefaultEmoji is returned for keys missing from the catalog.
	DefaultEmoji = "😐"

	// FallbackMessage is used when no message variant can be picked.
	FallbackMessage = "Has completado el cuestionario."

	// DefaultDominant is the dominant emotion of an empty tally.
	DefaultDominant = "calma"
)

// Emotion describes how a single emotion key is displayed.
type Emotion struct {
	Key      string
	Name     string
	Color    string
	Emoji    string
	Gesture  string
	Messages []string
}

var catalog = []Emotion{
	{
		Key: "alegria", Name: "Alegría", Color: "#e1c03c", Emoji: "😊", Gesture: "sonrisa",
		Messages: []string{
			"¡Tu día estuvo lleno de momentos felices!",
			"La alegría es tu compañera principal.",
			"Tu energía positiva brilla con fuerza.",
		},
	},
	{
		Key: "tristeza", Name: "Tristeza", Color: "#4860cb", Emoji: "😢", Gesture: "puchero",
		Messages: []string{
			"Has tenido momentos de melancolía.",
			"Es normal sentir tristeza a veces.",
			"Recuerda que mañana puede ser mejor.",
		},
	},
	{
		Key: "enojo", Name: "Enojo", Color: "#f44339", Emoji: "😠", Gesture: "ceño",
		Messages: []string{
			"Has experimentado frustración hoy.",
			"El enojo es válido, aprende de él.",
			"Respira profundo y busca calma.",
		},
	},
	{
		Key: "calma", Name: "Calma", Color: "#62e85e", Emoji: "😌", Gesture: "respiro",
		Messages: []string{
			"La tranquilidad te acompaña.",
			"Has mantenido la serenidad.",
			"Tu paz interior se nota.",
		},
	},
	{
		Key: "miedo", Name: "Miedo", Color: "#9746d5", Emoji: "😨", Gesture: "temblor",
		Messages: []string{
			"Hay inquietudes en tu mente.",
			"Es valiente reconocer tus miedos.",
			"No estás solo, pide apoyo si lo necesitas.",
		},
	},
	{
		Key: "nerviosismo", Name: "Nerviosismo", Color: "#FF9A76", Emoji: "😰", Gesture: "nervios",
		Messages: []string{
			"Los nervios han estado presentes.",
			"La ansiedad es temporal, respira.",
			"Paso a paso lograrás calmarte.",
		},
	},
	{
		Key: "desmotivacion", Name: "Desmotivación", Color: "#6b698c", Emoji: "😔", Gesture: "desanimo",
		Messages: []string{
			"Te has sentido sin energía.",
			"Busca algo que te inspire de nuevo.",
			"Es temporal, volverás a motivarte.",
		},
	},
	{
		Key: "motivacion", Name: "Motivación", Color: "#9746d5", Emoji: "🤩", Gesture: "entusiasmo",
		Messages: []string{
			"¡Tu motivación es contagiosa!",
			"Estás listo para lograr tus metas.",
			"Tu energía es imparable.",
		},
	},
	{
		Key: "inseguridad", Name: "Inseguridad", Color: "#c434a0", Emoji: "😕", Gesture: "duda",
		Messages: []string{
			"Has dudado de ti mismo.",
			"Eres más capaz de lo que crees.",
			"Confía en tu potencial.",
		},
	},
}

var byKey = func() map[string]Emotion {
	m := make(map[string]Emotion, len(catalog))
	for _, e := range catalog {
		m[e.Key] = e
	}
	return m
}()

// Lookup returns the catalog entry for key.
func Lookup(key string) (Emotion, bool) {
	e, ok := byKey[key]
	return e, ok
}

// Known reports whether key exists in the catalog.
func Known(key string) bool {
	_, ok := byKey[key]
	return ok
}

// Keys returns every catalog key in display order.
func Keys() []string {
	keys := make([]string, len(catalog))
	for i, e := range catalog {
		keys[i] = e.Key
	}
	return keys
}

// ColorOf returns the hex color for key, or DefaultColor.
func ColorOf(key string) string {
	if e, ok := byKey[key]; ok {
		return e.Color
	}
	return DefaultColor
}

// EmojiOf returns the emoji for key, or DefaultEmoji.
func EmojiOf(key string) string {
	if e, ok := byKey[key]; ok {
		return e.Emoji
	}
	return DefaultEmoji
}

// NameOf returns the display name for key, or the key itself.
func NameOf(key string) string {
	if e, ok := byKey[key]; ok {
		return e.Name
	}
	return key
}

// RandomMessage picks one of the message variants for key uniformly.
// A nil rng uses the package-level source.
func RandomMessage(key string, rng *rand.Rand) string {
	e, ok := byKey[key]
	if !ok || len(e.Messages) == 0 {
		return FallbackMessage
	}
	if rng == nil {
		return e.Messages[rand.IntN(len(e.Messages))]
	}
	return e.Messages[rng.IntN(len(e.Messages))]
}
