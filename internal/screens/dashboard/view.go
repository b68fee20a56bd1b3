package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/admin"
	"github.com/emotiquest/emotiquest/internal/emotion"
	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/session"
	"github.com/emotiquest/emotiquest/internal/ui/components"
	"github.com/emotiquest/emotiquest/internal/ui/theme"
	"github.com/emotiquest/emotiquest/internal/wellness"
)

// maxRows bounds the list length; the cursor scrolls the window.
const maxRows = 8

func (d *DashboardScreen) View(width, height int) string {
	cw := width - 4
	if cw > 100 {
		cw = 100
	}

	var sections []string
	switch d.mode {
	case modeDetail:
		if s, ok := d.selectedSession(); ok {
			sections = append(sections, d.renderDetail(s, cw))
		}
	case modeImportPath:
		sections = append(sections,
			theme.Title.Render("Importar datos"),
			theme.Body.Render("Archivo: ")+d.path.View(),
			theme.Hint.Render("Los datos actuales serán reemplazados."),
		)
	case modeConfirmImport:
		sections = append(sections, d.renderImportConfirm())
	default:
		sections = append(sections,
			d.renderStats(cw),
			components.BarChart(admin.EmotionDistribution(d.history), cw/2),
			d.renderTabs(),
			d.renderFilter(),
			d.renderList(cw),
		)
		if d.mode == modeConfirmDelete {
			sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
				Render("¿Eliminar el registro seleccionado? (s/n)"))
		}
	}

	if d.notice != "" {
		style := lipgloss.NewStyle().Foreground(theme.Success)
		if d.failed {
			style = theme.ErrorText
		}
		sections = append(sections, style.Render(d.notice))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(content))
}

func (d *DashboardScreen) renderStats(cw int) string {
	st := admin.Aggregate(d.history, admin.Today(d.now()))
	sum := rating.Aggregate(d.ratings)

	dominant := "—"
	if st.Dominant != "" {
		dominant = emotion.EmojiOf(st.Dominant) + " " + emotion.NameOf(st.Dominant)
	}

	box := func(label, value string) string {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1).
			Align(lipgloss.Center).
			Render(theme.Hint.Render(label) + "\n" + theme.Selected.Render(value))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		box("Total", fmt.Sprint(st.Total)),
		box("Hoy", fmt.Sprint(st.TodayCount)),
		box("Predominante", dominant),
		box("Edad promedio", fmt.Sprint(st.AverageAge)),
		box("Calificación", fmt.Sprintf("%.1f ★ (%d)", sum.AverageStars, sum.Total)),
		box("Volvería", fmt.Sprintf("%d%%", sum.PercentReturnYes)),
	)

	if len(d.views) == 0 {
		return row
	}
	keys := make([]string, 0, len(d.views))
	for k := range d.views {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", wellness.TitleOf(k), d.views[k]))
	}
	views := theme.Hint.Width(cw).Render("Rutas de bienestar: " + strings.Join(parts, " · "))
	return row + "\n" + views
}

func (d *DashboardScreen) renderTabs() string {
	labels := []string{
		fmt.Sprintf("Sesiones (%d)", len(d.visible)),
		fmt.Sprintf("Calificaciones (%d)", len(d.ratings)),
	}
	for i, l := range labels {
		if tab(i) == d.tab {
			labels[i] = theme.ButtonActive.Render(l)
		} else {
			labels[i] = theme.Hint.Render(" " + l + " ")
		}
	}
	return strings.Join(labels, "  ")
}

func (d *DashboardScreen) renderFilter() string {
	if d.tab != tabSessions {
		return ""
	}
	if d.filter.IsZero() {
		return theme.Hint.Render("Sin filtros")
	}
	var parts []string
	if d.filter.Date != "" {
		parts = append(parts, "fecha "+d.filter.Date)
	}
	if d.filter.Emotion != "" {
		parts = append(parts, "emoción "+emotion.NameOf(d.filter.Emotion))
	}
	if d.filter.Age != 0 {
		parts = append(parts, fmt.Sprintf("edad %d", d.filter.Age))
	}
	if d.filter.Gender != "" {
		parts = append(parts, "género "+d.filter.Gender.Label())
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Render("Filtros: " + strings.Join(parts, ", "))
}

// window returns the slice bounds of the rows to show around the cursor.
func (d *DashboardScreen) window(n int) (int, int) {
	start := 0
	if d.cursor >= maxRows {
		start = d.cursor - maxRows + 1
	}
	end := start + maxRows
	if end > n {
		end = n
	}
	return start, end
}

func (d *DashboardScreen) renderList(cw int) string {
	var lines []string
	if d.tab == tabRatings {
		if len(d.ratings) == 0 {
			return theme.Hint.Render("No hay calificaciones registradas")
		}
		start, end := d.window(len(d.ratings))
		for i := start; i < end; i++ {
			r := d.ratings[len(d.ratings)-1-i]
			line := fmt.Sprintf("%s %s  %-5s  %-8s  %s",
				r.Date, r.Time, strings.Repeat("★", r.Stars), r.WouldReturn.Label(), truncate(r.Comments, cw-40))
			lines = append(lines, d.renderRow(i, line))
		}
		return strings.Join(lines, "\n")
	}

	if len(d.visible) == 0 {
		return theme.Hint.Render("No hay sesiones que coincidan")
	}
	start, end := d.window(len(d.visible))
	for i := start; i < end; i++ {
		s := d.visible[i]
		line := fmt.Sprintf("%s %s  %-20s  %3d  %-10s  %s",
			s.Date, s.Time, truncate(s.Name, 20), s.Age, truncate(s.Grade, 10), emotion.EmojiOf(s.Dominant)+" "+emotion.NameOf(s.Dominant))
		lines = append(lines, d.renderRow(i, line))
	}
	return strings.Join(lines, "\n")
}

func (d *DashboardScreen) renderRow(i int, line string) string {
	if i == d.cursor {
		return theme.Selected.Render("▸ " + line)
	}
	return theme.Unselected.Render("  " + line)
}

func (d *DashboardScreen) renderDetail(s session.Session, cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Detalle de la sesión"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "ID: %s\nNombre: %s\nGénero: %s   Edad: %d   Escolaridad: %s\nFecha: %s %s\n",
		s.ID, s.Name, s.Gender.Label(), s.Age, s.Grade, s.Date, s.Time)
	if s.Avatar != nil {
		fmt.Fprintf(&b, "Avatar: %s\n", s.Avatar.Emoji)
	}
	b.WriteString("Predominante: ")
	b.WriteString(theme.Emotion(s.Dominant).Render(emotion.EmojiOf(s.Dominant) + " " + emotion.NameOf(s.Dominant)))
	b.WriteString("\n\n")

	for _, sl := range admin.ResponseDistribution(s) {
		fmt.Fprintf(&b, "%s %-14s %d (%.1f%%)\n", sl.Emoji, sl.Name, sl.Count, sl.Percent)
	}
	b.WriteString("\n")
	for n, a := range s.Answers {
		b.WriteString(theme.Hint.Width(cw).Render(fmt.Sprintf("%d. %s", n+1, a.Question)))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render(fmt.Sprintf("   → %s %s", a.Text, emotion.EmojiOf(a.Emotion))))
		b.WriteString("\n")
	}
	return b.String()
}

func (d *DashboardScreen) renderImportConfirm() string {
	snap := d.snapshot
	lines := []string{
		theme.Title.Render("Confirmar importación"),
		"",
		fmt.Sprintf("El archivo contiene %d sesiones.", len(snap.Sessions)),
	}
	if snap.HasRatings() {
		lines = append(lines, fmt.Sprintf("También contiene %d calificaciones.", len(snap.Ratings)))
	}
	if snap.NewerThan(d.env.Version) {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Render(
			fmt.Sprintf("⚠ El archivo fue creado con una versión más nueva (%s).", snap.AppVersion)))
	}
	lines = append(lines, "",
		theme.ErrorText.Render("Se reemplazarán los datos actuales. ¿Continuar? (s/n)"))
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
