package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/emotiquest/emotiquest/internal/admin"
	"github.com/emotiquest/emotiquest/internal/emotion"
	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/session"
	"github.com/emotiquest/emotiquest/internal/validation"
)

var errNotFound = errors.New("not found")

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statsResponse struct {
	Sessions     admin.Stats        `json:"sesiones"`
	Ratings      rating.Summary     `json:"calificaciones"`
	Views        map[string]int     `json:"visualizaciones"`
	Distribution []emotion.ChartRow `json:"distribucion"`
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	history := s.store.LoadHistory(ctx)
	respondJSON(w, http.StatusOK, statsResponse{
		Sessions:     admin.Aggregate(history, admin.Today(s.now())),
		Ratings:      admin.AggregateRatings(s.store.LoadRatings(ctx)),
		Views:        s.store.ViewCounts(ctx),
		Distribution: admin.EmotionDistribution(history),
	})
}

// parseFilter reads fecha, emocion, edad and genero from the query string.
func parseFilter(r *http.Request) (admin.Filter, error) {
	q := r.URL.Query()
	f := admin.Filter{
		Date:    strings.TrimSpace(q.Get("fecha")),
		Emotion: strings.TrimSpace(q.Get("emocion")),
		Gender:  session.Gender(strings.TrimSpace(q.Get("genero"))),
	}
	verr := &validation.Error{}
	if v := strings.TrimSpace(q.Get("edad")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			verr.Add("edad", "debe ser un número entero positivo")
		}
		f.Age = n
	}
	if f.Gender != "" && !f.Gender.Valid() {
		verr.Add("genero", session.MsgGender)
	}
	return f, verr.Err()
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		verr, _ := validation.As(err)
		respondValidation(w, verr)
		return
	}
	out := admin.FilterSessions(s.store.LoadHistory(r.Context()), f)
	respondJSON(w, http.StatusOK, out)
}

type sessionDetail struct {
	session.Session
	Distribution []admin.Slice `json:"distribucion"`
}

func (s *Server) findSession(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := admin.FindSession(s.store.LoadHistory(r.Context()), id)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", fmt.Errorf("session %q: %w", id, errNotFound))
	}
	return sess, ok
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.findSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sessionDetail{Session: sess, Distribution: admin.ResponseDistribution(sess)})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.RemoveSession(r.Context(), id) {
		respondError(w, http.StatusNotFound, "not_found", fmt.Errorf("session %q: %w", id, errNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sessionInsight(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.findSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.insight.Generate(r.Context(), &sess, nil))
}

func (s *Server) listRatings(w http.ResponseWriter, r *http.Request) {
	ratings := s.store.LoadRatings(r.Context())
	if ratings == nil {
		ratings = []rating.Rating{}
	}
	respondJSON(w, http.StatusOK, ratings)
}

func (s *Server) deleteRating(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.RemoveRating(r.Context(), id) {
		respondError(w, http.StatusNotFound, "not_found", fmt.Errorf("rating %q: %w", id, errNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := s.now()
	snap := admin.Export(s.store.LoadHistory(ctx), s.store.LoadRatings(ctx), now, s.version)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, admin.FileName(now)))
	respondJSON(w, http.StatusOK, snap)
}

type importResponse struct {
	admin.ImportResult
	Warning string `json:"warning,omitempty"`
}

func (s *Server) importSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		respondValidation(w, &validation.Error{Fields: []validation.FieldError{{
			Field:   "confirm",
			Message: "la importación reemplaza todos los datos; repite con ?confirm=true",
		}}})
		return
	}

	snap, err := admin.DecodeSnapshot(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "too_large",
				fmt.Errorf("import body exceeds %d bytes", tooLarge.Limit))
			return
		}
		if verr, ok := validation.As(err); ok {
			respondValidation(w, verr)
			return
		}
		respondError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	resp := importResponse{}
	if snap.NewerThan(s.version) {
		resp.Warning = fmt.Sprintf("snapshot written by newer version %s", snap.AppVersion)
		s.log.Warn("importing snapshot from newer version", "snapshot", snap.AppVersion, "running", s.version)
	}

	res, err := admin.Import(r.Context(), s.store, snap)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "import_failed", err)
		return
	}
	resp.ImportResult = res
	s.log.Info("snapshot imported", "sessions", res.Sessions, "ratings", res.Ratings)
	respondJSON(w, http.StatusOK, resp)
}
