package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/emotiquest/emotiquest/internal/admin"
	"github.com/emotiquest/emotiquest/internal/insight"
	"github.com/emotiquest/emotiquest/internal/llm"
	"github.com/emotiquest/emotiquest/internal/logging"
	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/session"
	"github.com/emotiquest/emotiquest/internal/store"
)

var fixedNow = time.Date(2025, time.March, 7, 12, 0, 0, 0, time.Local)

func seeded(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	for _, s := range []session.Session{
		{ID: "s1", Name: "Ana", Date: "2025-03-07", Age: 10, Gender: session.GenderFemale, Completed: true, Dominant: "alegria",
			Answers: []session.Answer{{QuestionID: 1, Emotion: "alegria"}, {QuestionID: 2, Emotion: "miedo"}}},
		{ID: "s2", Name: "Beto", Date: "2025-03-06", Age: 12, Gender: session.GenderMale, Completed: true, Dominant: "calma",
			Answers: []session.Answer{{QuestionID: 1, Emotion: "calma"}}},
	} {
		require.True(t, st.UpsertHistory(ctx, s))
	}
	require.True(t, st.AppendRating(ctx, rating.Rating{ID: "CAL-1-1", SessionID: "s1", Stars: 5, WouldReturn: rating.ReturnYes}))
	_, ok := st.RecordView(ctx, "meditacion")
	require.True(t, ok)
	return st
}

func newTestServer(t *testing.T, st Store, opts Options) *httptest.Server {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	if opts.Version == "" {
		opts.Version = "1.2.0"
	}
	ts := httptest.NewServer(New(st, opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthAndRequestID(t *testing.T) {
	ts := newTestServer(t, seeded(t), Options{})

	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "abc-123", resp2.Header.Get(requestIDHeader))
}

func TestStats(t *testing.T) {
	ts := newTestServer(t, seeded(t), Options{})
	resp := do(t, http.MethodGet, ts.URL+"/api/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Sessions     admin.Stats `json:"sesiones"`
		Ratings      struct {
			Total int     `json:"total"`
			Avg   float64 `json:"promedioEstrellas"`
			Yes   int     `json:"porcentajeVolveria"`
		} `json:"calificaciones"`
		Views        map[string]int   `json:"visualizaciones"`
		Distribution []map[string]any `json:"distribucion"`
	}
	decode(t, resp, &got)
	assert.Equal(t, admin.Stats{Total: 2, TodayCount: 1, Dominant: "alegria", AverageAge: 11}, got.Sessions)
	assert.Equal(t, 1, got.Ratings.Total)
	assert.Equal(t, 5.0, got.Ratings.Avg)
	assert.Equal(t, 100, got.Ratings.Yes)
	assert.Equal(t, map[string]int{"meditacion": 1}, got.Views)
	assert.Len(t, got.Distribution, 2)
}

func TestListSessions(t *testing.T) {
	ts := newTestServer(t, seeded(t), Options{})
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"s1", "s2"}},
		{"?fecha=2025-03-06", []string{"s2"}},
		{"?emocion=alegria&edad=10", []string{"s1"}},
		{"?genero=masculino&edad=10", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+"/api/sessions"+tt.query, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var got []session.Session
			decode(t, resp, &got)
			ids := []string{}
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestListSessionsRejectsBadFilter(t *testing.T) {
	ts := newTestServer(t, seeded(t), Options{})
	resp := do(t, http.MethodGet, ts.URL+"/api/sessions?edad=diez&genero=otro", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var env errorEnvelope
	decode(t, resp, &env)
	assert.Equal(t, "validation", env.Error.Code)
	require.Len(t, env.Error.Fields, 2)
	assert.Equal(t, "edad", env.Error.Fields[0].Field)
	assert.Equal(t, "genero", env.Error.Fields[1].Field)
}

func TestGetSession(t *testing.T) {
	ts := newTestServer(t, seeded(t), Options{})

	resp := do(t, http.MethodGet, ts.URL+"/api/sessions/s1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		ID           string        `json:"id"`
		Distribution []admin.Slice `json:"distribucion"`
	}
	decode(t, resp, &got)
	assert.Equal(t, "s1", got.ID)
	require.Len(t, got.Distribution, 2)
	assert.Equal(t, 50.0, got.Distribution[0].Percent)

	resp = do(t, http.MethodGet, ts.URL+"/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteSession(t *testing.T) {
	st := seeded(t)
	ts := newTestServer(t, st, Options{})

	resp := do(t, http.MethodDelete, ts.URL+"/api/sessions/s1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, st.LoadHistory(context.Background()), 1)

	resp = do(t, http.MethodDelete, ts.URL+"/api/sessions/s1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRatings(t *testing.T) {
	st := seeded(t)
	ts := newTestServer(t, st, Options{})

	resp := do(t, http.MethodGet, ts.URL+"/api/ratings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got []rating.Rating
	decode(t, resp, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "CAL-1-1", got[0].ID)

	resp = do(t, http.MethodDelete, ts.URL+"/api/ratings/CAL-1-1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodDelete, ts.URL+"/api/ratings/CAL-1-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/api/ratings", nil)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[]`, string(body))
}

func TestInsight(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"mensaje":"Se nota tu alegría.","sugerencia":"Cuéntale a un amigo."}`),
	})
	ts := newTestServer(t, seeded(t), Options{Insight: insight.NewService(mock, insight.DefaultConfig(), nil)})

	resp := do(t, http.MethodGet, ts.URL+"/api/sessions/s1/insight", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got insight.Insight
	decode(t, resp, &got)
	assert.True(t, got.Generated)
	assert.Equal(t, "Se nota tu alegría.", got.Message)

	// The queue is empty now, so the next call falls back.
	resp = do(t, http.MethodGet, ts.URL+"/api/sessions/s2/insight", nil)
	decode(t, resp, &got)
	assert.False(t, got.Generated)
	assert.Contains(t, got.Message, "Calma")

	resp = do(t, http.MethodGet, ts.URL+"/api/sessions/zzz/insight", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExport(t *testing.T) {
	ts := newTestServer(t, seeded(t), Options{})
	resp := do(t, http.MethodGet, ts.URL+"/api/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "emotiquest_datos_2025-03-07.json")

	snap, err := admin.DecodeSnapshot(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.TotalSessions)
	assert.Equal(t, 1, snap.TotalRatings)
	assert.Equal(t, "1.2.0", snap.AppVersion)
}

func TestImportRequiresConfirm(t *testing.T) {
	st := seeded(t)
	ts := newTestServer(t, st, Options{})
	resp := do(t, http.MethodPost, ts.URL+"/api/import", strings.NewReader(`{"sessions":[]}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Len(t, st.LoadHistory(context.Background()), 2)
}

func TestImportRejectsMissingSessions(t *testing.T) {
	st := seeded(t)
	ts := newTestServer(t, st, Options{})
	resp := do(t, http.MethodPost, ts.URL+"/api/import?confirm=true", strings.NewReader(`{"calificaciones":[]}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var env errorEnvelope
	decode(t, resp, &env)
	require.NotEmpty(t, env.Error.Fields)
	assert.Equal(t, "sessions", env.Error.Fields[0].Field)
	assert.Len(t, st.LoadHistory(context.Background()), 2, "history untouched")
	assert.Len(t, st.LoadRatings(context.Background()), 1)
}

func TestImportRejectsOversizedBody(t *testing.T) {
	old := maxImportBytes
	maxImportBytes = 64
	t.Cleanup(func() { maxImportBytes = old })

	st := seeded(t)
	ts := newTestServer(t, st, Options{})
	doc := `{"sessions":[{"id":"` + strings.Repeat("x", 200) + `"}]}`
	resp := do(t, http.MethodPost, ts.URL+"/api/import?confirm=true", strings.NewReader(doc))
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	var env errorEnvelope
	decode(t, resp, &env)
	assert.Equal(t, "too_large", env.Error.Code)
	assert.Len(t, st.LoadHistory(context.Background()), 2, "history untouched")
}

func TestImportReplaces(t *testing.T) {
	st := seeded(t)
	ts := newTestServer(t, st, Options{})
	doc := `{"appVersion":"2.0.0","sessions":[{"id":"n1","emocionPredominante":"miedo","completada":true}]}`

	resp := do(t, http.MethodPost, ts.URL+"/api/import?confirm=true", strings.NewReader(doc))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got importResponse
	decode(t, resp, &got)
	assert.Equal(t, 1, got.Sessions)
	assert.False(t, got.RatingsReplaced)
	assert.Contains(t, got.Warning, "2.0.0")

	ctx := context.Background()
	history := st.LoadHistory(ctx)
	require.Len(t, history, 1)
	assert.Equal(t, "n1", history[0].ID)
	assert.Len(t, st.LoadRatings(ctx), 1, "ratings kept when the snapshot has none")
}

func TestRequestsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ts := newTestServer(t, seeded(t), Options{Log: logging.FromZap(zap.New(core))})

	do(t, http.MethodGet, ts.URL+"/api/sessions/missing", nil)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/sessions/{id}", fields["path"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
}
