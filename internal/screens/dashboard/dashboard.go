// Package dashboard is the administrator view over the stored history:
// headline numbers, the emotion chart, filtered session and rating lists,
// and snapshot export and import.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/emotiquest/emotiquest/internal/admin"
	"github.com/emotiquest/emotiquest/internal/emotion"
	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/router"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/session"
	"github.com/emotiquest/emotiquest/internal/ui/components"
	"github.com/emotiquest/emotiquest/internal/ui/layout"
	"github.com/emotiquest/emotiquest/internal/validation"
)

type tab int

const (
	tabSessions tab = iota
	tabRatings
)

type mode int

const (
	modeList mode = iota
	modeDetail
	modeConfirmDelete
	modeImportPath
	modeConfirmImport
)

// DashboardScreen is the admin panel.
type DashboardScreen struct {
	env *screen.Env
	now func() time.Time

	history []session.Session
	ratings []rating.Rating
	views   map[string]int

	filter  admin.Filter
	visible []session.Session
	tab     tab
	cursor  int
	mode    mode

	path     components.TextInput
	snapshot *admin.Snapshot
	notice   string
	failed   bool
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.BackHandler = (*DashboardScreen)(nil)

// New creates the dashboard and loads the history.
func New(env *screen.Env) *DashboardScreen {
	d := &DashboardScreen{
		env:  env,
		now:  time.Now,
		path: components.NewTextInput("ruta del archivo .json", false, 0),
	}
	d.path.Blur()
	d.reload()
	return d
}

func (d *DashboardScreen) Init() tea.Cmd { return nil }

func (d *DashboardScreen) Title() string { return "Panel de administración" }

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	switch d.mode {
	case modeConfirmDelete, modeConfirmImport:
		return []layout.KeyHint{{Key: "s", Description: "Confirmar"}, {Key: "n", Description: "Cancelar"}}
	case modeImportPath:
		return []layout.KeyHint{{Key: "Enter", Description: "Cargar"}, {Key: "Esc", Description: "Cancelar"}}
	case modeDetail:
		return []layout.KeyHint{{Key: "Esc", Description: "Volver"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Sesiones/Calificaciones"},
		{Key: "e g a t", Description: "Filtros"},
		{Key: "c", Description: "Limpiar"},
		{Key: "Enter", Description: "Detalle"},
		{Key: "d", Description: "Eliminar"},
		{Key: "x/i", Description: "Exportar/Importar"},
	}
}

// Back leaves the current sub-view, or the dashboard.
func (d *DashboardScreen) Back() tea.Cmd {
	if d.mode != modeList {
		d.mode = modeList
		d.snapshot = nil
		d.path.Blur()
		return nil
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// reload reads every collection and reapplies the filter.
func (d *DashboardScreen) reload() {
	ctx := context.Background()
	d.history = d.env.Store.LoadHistory(ctx)
	d.ratings = d.env.Store.LoadRatings(ctx)
	d.views = d.env.Store.ViewCounts(ctx)
	d.applyFilter()
}

// applyFilter recomputes the visible sessions, newest first.
func (d *DashboardScreen) applyFilter() {
	d.visible = admin.FilterSessions(d.history, d.filter)
	slices.Reverse(d.visible)
	d.clampCursor()
}

func (d *DashboardScreen) rows() int {
	if d.tab == tabRatings {
		return len(d.ratings)
	}
	return len(d.visible)
}

func (d *DashboardScreen) clampCursor() {
	if n := d.rows(); d.cursor >= n {
		d.cursor = n - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
}

// Visible returns the sessions passing the current filter.
func (d *DashboardScreen) Visible() []session.Session { return d.visible }

// Filter returns the active filter.
func (d *DashboardScreen) Filter() admin.Filter { return d.filter }

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if d.mode == modeImportPath {
			var cmd tea.Cmd
			d.path, cmd = d.path.Update(msg)
			return d, cmd
		}
		return d, nil
	}

	switch d.mode {
	case modeDetail:
		if kmsg.String() == "enter" || kmsg.String() == "q" {
			d.mode = modeList
		}
		return d, nil
	case modeConfirmDelete:
		d.confirmDelete(kmsg.String())
		return d, nil
	case modeImportPath:
		if kmsg.String() == "enter" {
			d.loadSnapshot()
			return d, nil
		}
		var cmd tea.Cmd
		d.path, cmd = d.path.Update(msg)
		return d, cmd
	case modeConfirmImport:
		d.confirmImport(kmsg.String())
		return d, nil
	}

	d.notice = ""
	switch kmsg.String() {
	case "tab":
		d.tab = (d.tab + 1) % 2
		d.cursor = 0
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < d.rows()-1 {
			d.cursor++
		}
	case "enter":
		if d.tab == tabSessions && len(d.visible) > 0 {
			d.mode = modeDetail
		}
	case "e":
		d.filter.Emotion = cycle(emotion.Keys(), d.filter.Emotion)
		d.applyFilter()
	case "g":
		d.filter.Gender = cycle(session.Genders, d.filter.Gender)
		d.applyFilter()
	case "a":
		d.filter.Age = cycle(d.ages(), d.filter.Age)
		d.applyFilter()
	case "t":
		if d.filter.Date == "" {
			d.filter.Date = admin.Today(d.now())
		} else {
			d.filter.Date = ""
		}
		d.applyFilter()
	case "c":
		d.filter = admin.Filter{}
		d.applyFilter()
	case "d":
		if d.rows() > 0 {
			d.mode = modeConfirmDelete
		}
	case "x":
		d.export()
	case "i":
		d.mode = modeImportPath
		d.path.SetValue("")
		return d, d.path.Focus()
	}
	return d, nil
}

// cycle returns the value after cur in values, wrapping to the zero value
// after the last one.
func cycle[T comparable](values []T, cur T) T {
	var zero T
	if cur == zero {
		if len(values) > 0 {
			return values[0]
		}
		return zero
	}
	i := slices.Index(values, cur)
	if i < 0 || i == len(values)-1 {
		return zero
	}
	return values[i+1]
}

// ages returns the distinct ages in the history, ascending.
func (d *DashboardScreen) ages() []int {
	var out []int
	for _, s := range d.history {
		if !slices.Contains(out, s.Age) {
			out = append(out, s.Age)
		}
	}
	slices.Sort(out)
	return out
}

func (d *DashboardScreen) selectedSession() (session.Session, bool) {
	if d.cursor < 0 || d.cursor >= len(d.visible) {
		return session.Session{}, false
	}
	return d.visible[d.cursor], true
}

func (d *DashboardScreen) selectedRating() (rating.Rating, bool) {
	// Ratings are listed newest first.
	i := len(d.ratings) - 1 - d.cursor
	if i < 0 || i >= len(d.ratings) {
		return rating.Rating{}, false
	}
	return d.ratings[i], true
}

func (d *DashboardScreen) confirmDelete(key string) {
	switch key {
	case "s", "y":
	case "n":
		d.mode = modeList
		return
	default:
		return
	}
	d.mode = modeList

	ctx := context.Background()
	var ok bool
	if d.tab == tabRatings {
		r, found := d.selectedRating()
		ok = found && d.env.Store.RemoveRating(ctx, r.ID)
	} else {
		s, found := d.selectedSession()
		ok = found && d.env.Store.RemoveSession(ctx, s.ID)
	}
	if !ok {
		d.setNotice("No se pudo eliminar el registro.", true)
		return
	}
	d.reload()
	d.setNotice("Registro eliminado.", false)
}

func (d *DashboardScreen) export() {
	now := d.now()
	snap := admin.Export(d.history, d.ratings, now, d.env.Version)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		d.setNotice("No se pudo exportar: "+err.Error(), true)
		return
	}
	name := admin.FileName(now)
	if err := os.WriteFile(name, data, 0o644); err != nil {
		d.env.Log.Error("export snapshot", "file", name, "error", err)
		d.setNotice("No se pudo escribir "+name, true)
		return
	}
	d.env.Log.Info("snapshot exported", "file", name, "sessions", snap.TotalSessions, "ratings", snap.TotalRatings)
	d.setNotice(fmt.Sprintf("Datos exportados a %s", name), false)
}

func (d *DashboardScreen) loadSnapshot() {
	name := d.path.Value()
	f, err := os.Open(name)
	if err != nil {
		d.setNotice("No se pudo abrir el archivo: "+err.Error(), true)
		return
	}
	defer f.Close()

	snap, err := admin.DecodeSnapshot(f)
	if err != nil {
		msg := err.Error()
		if verr, ok := validation.As(err); ok && len(verr.Fields) > 0 {
			msg = verr.Fields[0].Message
		}
		d.setNotice(msg, true)
		return
	}
	d.snapshot = snap
	d.path.Blur()
	d.mode = modeConfirmImport
}

func (d *DashboardScreen) confirmImport(key string) {
	switch key {
	case "s", "y":
	case "n":
		d.mode = modeList
		d.snapshot = nil
		return
	default:
		return
	}
	d.mode = modeList

	res, err := admin.Import(context.Background(), d.env.Store, d.snapshot)
	d.snapshot = nil
	if err != nil {
		d.env.Log.Error("import snapshot", "error", err)
		d.setNotice("No se pudieron importar los datos.", true)
		return
	}
	d.reload()
	msg := fmt.Sprintf("Importadas %d sesiones", res.Sessions)
	if res.RatingsReplaced {
		msg += fmt.Sprintf(" y %d calificaciones", res.Ratings)
	}
	d.setNotice(msg+".", false)
}

func (d *DashboardScreen) setNotice(msg string, failed bool) {
	d.notice = msg
	d.failed = failed
}
