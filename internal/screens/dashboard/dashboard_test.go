package dashboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emotiquest/emotiquest/internal/admin"
	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/router"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/screens/screentest"
	"github.com/emotiquest/emotiquest/internal/session"
)

func seeded(t *testing.T) (*screen.Env, *DashboardScreen) {
	t.Helper()
	env := screentest.Env(t)
	for _, s := range []session.Session{
		{ID: "s1", Date: "2025-03-03", Age: 10, Gender: session.GenderFemale, Dominant: "alegria", Completed: true},
		{ID: "s2", Date: "2025-03-04", Age: 12, Gender: session.GenderMale, Dominant: "calma", Completed: true},
		{ID: "s3", Date: "2025-03-05", Age: 10, Gender: session.GenderMale, Dominant: "alegria", Completed: true},
	} {
		require.True(t, env.Store.UpsertHistory(t.Context(), s))
	}
	require.True(t, env.Store.AppendRating(t.Context(), rating.Rating{ID: "CAL-1", SessionID: "s1", Stars: 5, WouldReturn: rating.ReturnYes}))

	d := New(env)
	d.now = func() time.Time { return screentest.Now }
	return env, d
}

func ids(ss []session.Session) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.ID
	}
	return out
}

func TestListsNewestFirst(t *testing.T) {
	_, d := seeded(t)
	assert.Equal(t, []string{"s3", "s2", "s1"}, ids(d.Visible()))
	assert.Contains(t, d.View(120, 60), "Sesiones")
}

func TestFilters(t *testing.T) {
	_, d := seeded(t)

	screentest.Press(d, screentest.Key('e'))
	assert.Equal(t, "alegria", d.Filter().Emotion)
	assert.Equal(t, []string{"s3", "s1"}, ids(d.Visible()))

	screentest.Press(d, screentest.Key('g'))
	assert.Equal(t, session.GenderMale, d.Filter().Gender)
	assert.Equal(t, []string{"s3"}, ids(d.Visible()))

	screentest.Press(d, screentest.Key('c'))
	assert.True(t, d.Filter().IsZero())
	assert.Len(t, d.Visible(), 3)

	screentest.Press(d, screentest.Key('t'))
	assert.Equal(t, "2025-03-05", d.Filter().Date)
	assert.Equal(t, []string{"s3"}, ids(d.Visible()))

	screentest.Press(d, screentest.Key('c'), screentest.Key('a'), screentest.Key('a'))
	assert.Equal(t, 12, d.Filter().Age)
	assert.Equal(t, []string{"s2"}, ids(d.Visible()))
}

func TestCycleWraps(t *testing.T) {
	values := []string{"a", "b"}
	assert.Equal(t, "a", cycle(values, ""))
	assert.Equal(t, "b", cycle(values, "a"))
	assert.Equal(t, "", cycle(values, "b"))
	assert.Equal(t, 0, cycle([]int{}, 0))
}

func TestDeleteSession(t *testing.T) {
	env, d := seeded(t)

	screentest.Press(d, screentest.Special(tea.KeyDown), screentest.Key('d'))
	assert.Equal(t, modeConfirmDelete, d.mode)
	screentest.Press(d, screentest.Key('n'))
	assert.Len(t, d.Visible(), 3)

	screentest.Press(d, screentest.Key('d'), screentest.Key('s'))
	assert.Equal(t, []string{"s3", "s1"}, ids(d.Visible()))
	assert.Len(t, env.Store.LoadHistory(t.Context()), 2)
	assert.Equal(t, "Registro eliminado.", d.notice)
}

func TestDeleteRating(t *testing.T) {
	env, d := seeded(t)
	screentest.Press(d, screentest.Special(tea.KeyTab), screentest.Key('d'), screentest.Key('s'))
	assert.Empty(t, env.Store.LoadRatings(t.Context()))
	assert.Len(t, env.Store.LoadHistory(t.Context()), 3)
}

func TestDetailView(t *testing.T) {
	_, d := seeded(t)
	screentest.Press(d, screentest.Special(tea.KeyEnter))
	assert.Equal(t, modeDetail, d.mode)
	assert.Contains(t, d.View(120, 60), "ID: s3")

	assert.Nil(t, d.Back())
	assert.Equal(t, modeList, d.mode)
	_, ok := screentest.Find[router.PopScreenMsg](d.Back())
	assert.True(t, ok)
}

func TestExportWritesSnapshot(t *testing.T) {
	t.Chdir(t.TempDir())
	_, d := seeded(t)

	screentest.Press(d, screentest.Key('x'))
	assert.False(t, d.failed, d.notice)

	data, err := os.ReadFile(admin.FileName(screentest.Now))
	require.NoError(t, err)
	var snap admin.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, 3, snap.TotalSessions)
	assert.Equal(t, 1, snap.TotalRatings)
	assert.Equal(t, "1.0.0", snap.AppVersion)
}

func TestImportReplacesHistory(t *testing.T) {
	env, d := seeded(t)

	snap := admin.Export([]session.Session{
		{ID: "imp", Date: "2025-02-01", Age: 9, Gender: session.GenderUnspecified, Dominant: "miedo", Completed: true},
	}, nil, screentest.Now, "1.0.0")
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "datos.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	screentest.Press(d, screentest.Key('i'))
	require.Equal(t, modeImportPath, d.mode)
	screentest.Type(d, path)
	screentest.Press(d, screentest.Special(tea.KeyEnter))
	require.Equal(t, modeConfirmImport, d.mode, d.notice)

	screentest.Press(d, screentest.Key('s'))
	assert.Equal(t, []string{"imp"}, ids(d.Visible()))
	assert.Empty(t, env.Store.LoadRatings(t.Context()))
	assert.Equal(t, "Importadas 1 sesiones y 0 calificaciones.", d.notice)
}

func TestImportRejectsBadFile(t *testing.T) {
	_, d := seeded(t)
	path := filepath.Join(t.TempDir(), "malo.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"calificaciones":[]}`), 0o644))

	screentest.Press(d, screentest.Key('i'))
	screentest.Type(d, path)
	screentest.Press(d, screentest.Special(tea.KeyEnter))
	assert.Equal(t, modeImportPath, d.mode)
	assert.True(t, d.failed)
	assert.Contains(t, d.notice, admin.MsgMissingSessions)
	assert.Len(t, d.Visible(), 3)
}
