// Package wellness holds the "Rutas de bienestar" resources offered outside
// the questionnaire. Views are counted per resource key.
package wellness

// Resource is one wellness page.
type Resource struct {
	Key   string
	Title string
	Emoji string
	Intro string
	Steps []string
}

var resources = []Resource{
	{
		Key:   "meditacion",
		Title: "Meditación guiada",
		Emoji: "🧘",
		Intro: "Unos minutos de calma para escuchar tu respiración.",
		Steps: []string{
			"Siéntate cómodo y apoya los pies en el suelo.",
			"Cierra los ojos o mira un punto fijo.",
			"Inhala contando hasta cuatro y exhala contando hasta seis.",
			"Si te distraes, vuelve a tu respiración sin regañarte.",
			"Repite durante tres minutos.",
		},
	},
	{
		Key:   "lineas",
		Title: "Líneas de apoyo",
		Emoji: "📞",
		Intro: "Si algo te preocupa, hablar con alguien ayuda.",
		Steps: []string{
			"Cuéntale a un adulto de confianza cómo te sientes.",
			"Busca al orientador o psicólogo de tu escuela.",
			"En una emergencia llama al número local de emergencias.",
			"Pedir ayuda es una muestra de valentía.",
		},
	},
	{
		Key:   "guias",
		Title: "Guías emocionales",
		Emoji: "📚",
		Intro: "Conocer tus emociones te ayuda a cuidarlas.",
		Steps: []string{
			"Ponle nombre a lo que sientes: alegría, tristeza, enojo, miedo...",
			"Todas las emociones son válidas y pasajeras.",
			"Piensa qué pasó antes de sentirte así.",
			"Elige una acción pequeña que te haga sentir mejor.",
		},
	},
	{
		Key:   "ejercicios",
		Title: "Ejercicios de respiración",
		Emoji: "🌬️",
		Intro: "Tu respiración es una herramienta que siempre llevas contigo.",
		Steps: []string{
			"Respiración cuadrada: inhala 4, sostén 4, exhala 4, sostén 4.",
			"Respiración de globo: llena tu panza de aire como un globo y suéltalo despacio.",
			"Respiración de vela: inhala por la nariz y sopla suave como apagando una vela.",
			"Repite cada ejercicio cinco veces.",
		},
	},
}

// All returns the resources in display order.
func All() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

// Lookup returns the resource with key.
func Lookup(key string) (Resource, bool) {
	for _, r := range resources {
		if r.Key == key {
			return r, true
		}
	}
	return Resource{}, false
}

// TitleOf returns the display title for key, or key itself when unknown.
func TitleOf(key string) string {
	if r, ok := Lookup(key); ok {
		return r.Title
	}
	return key
}
