package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/schemacheck"
	"github.com/emotiquest/emotiquest/internal/session"
	"github.com/emotiquest/emotiquest/internal/validation"
)

// exportDateLayout matches the millisecond ISO-8601 timestamps of earlier
// exports.
const exportDateLayout = "2006-01-02T15:04:05.000Z07:00"

// MsgMissingSessions is reported when an import payload has no sessions
// array.
const MsgMissingSessions = "Archivo JSON inválido: falta el array de sesiones"

// MsgBadRatings is reported when an import payload carries a ratings value
// that is not a list.
const MsgBadRatings = "Archivo JSON inválido: calificaciones debe ser un array"

// ErrReplaceFailed is returned by Import when the store refused a write.
var ErrReplaceFailed = errors.New("replace stored history failed")

// Snapshot is the export file format.
type Snapshot struct {
	ExportDate    string            `json:"exportDate"`
	TotalSessions int               `json:"totalSessions"`
	TotalRatings  int               `json:"totalCalificaciones"`
	Sessions      []session.Session `json:"sessions"`
	Ratings       []rating.Rating   `json:"calificaciones"`
	AppVersion    string            `json:"appVersion,omitempty"`

	// hasRatings records whether a decoded payload carried a ratings list.
	hasRatings bool
}

// HasRatings reports whether the snapshot carries a ratings list.
func (s *Snapshot) HasRatings() bool { return s.hasRatings }

// Export builds a snapshot of the full history.
func Export(history []session.Session, ratings []rating.Rating, now time.Time, version string) *Snapshot {
	if history == nil {
		history = []session.Session{}
	}
	if ratings == nil {
		ratings = []rating.Rating{}
	}
	return &Snapshot{
		ExportDate:    now.UTC().Format(exportDateLayout),
		TotalSessions: len(history),
		TotalRatings:  len(ratings),
		Sessions:      history,
		Ratings:       ratings,
		AppVersion:    version,
		hasRatings:    true,
	}
}

// FileName is the suggested download name for an export made at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("emotiquest_datos_%s.json", Today(now))
}

var snapshotSchema = map[string]any{
	"type":     "object",
	"required": []string{"sessions"},
	"properties": map[string]any{
		"sessions":       map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
		"calificaciones": map[string]any{"type": []string{"array", "null"}, "items": map[string]any{"type": "object"}},
		"appVersion":     map[string]any{"type": "string"},
	},
}

// DecodeSnapshot parses an import payload. A payload without a sessions
// array, or with records that fail validation, is rejected with a
// *validation.Error.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, validation.New("sessions", MsgMissingSessions)
	}
	if err := schemacheck.Validate("snapshot", snapshotSchema, data); err != nil {
		return nil, schemaError(err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, validation.New("sessions", fmt.Sprintf("registros inválidos: %v", err))
	}
	if snap.Sessions == nil {
		snap.Sessions = []session.Session{}
	}
	raw, ok := fields["calificaciones"]
	snap.hasRatings = ok && strings.TrimSpace(string(raw)) != "null"

	verr := &validation.Error{}
	for i := range snap.Sessions {
		if err := snap.Sessions[i].Check(); err != nil {
			verr.Add(fmt.Sprintf("sessions[%d]", i), err.Error())
		}
	}
	for i, r := range snap.Ratings {
		if err := r.Check(); err != nil {
			verr.Add(fmt.Sprintf("calificaciones[%d]", i), err.Error())
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// schemaError maps each failing location of a snapshot to the field it
// belongs to.
func schemaError(err error) error {
	verr := &validation.Error{}
	for _, loc := range schemacheck.Locations(err) {
		field, msg := "sessions", MsgMissingSessions
		if strings.HasPrefix(loc, "/calificaciones") {
			field, msg = "calificaciones", MsgBadRatings
		}
		if !verr.Has(field) {
			verr.Add(field, msg)
		}
	}
	if verr.Err() == nil {
		verr.Add("sessions", MsgMissingSessions)
	}
	return verr.Err()
}

// NewerThan reports whether the snapshot was written by a newer release
// than running. Unparseable versions compare as not newer.
func (s *Snapshot) NewerThan(running string) bool {
	a, b := canonical(s.AppVersion), canonical(running)
	if a == "" || b == "" {
		return false
	}
	return semver.Compare(a, b) > 0
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

// Replacer is the part of the store that import writes through.
type Replacer interface {
	ReplaceHistory(ctx context.Context, sessions []session.Session) bool
	ReplaceRatings(ctx context.Context, ratings []rating.Rating) bool
}

// ImportResult reports what an import replaced.
type ImportResult struct {
	Sessions        int  `json:"sesiones"`
	Ratings         int  `json:"calificaciones"`
	RatingsReplaced bool `json:"calificacionesReemplazadas"`
}

// Import replaces the stored history with the snapshot. Ratings are
// replaced only when the snapshot carries a ratings list. Nothing is merged;
// confirming the overwrite is the caller's job.
func Import(ctx context.Context, dst Replacer, snap *Snapshot) (ImportResult, error) {
	if snap == nil || snap.Sessions == nil {
		return ImportResult{}, validation.New("sessions", MsgMissingSessions)
	}
	if !dst.ReplaceHistory(ctx, snap.Sessions) {
		return ImportResult{}, fmt.Errorf("%w: sessions", ErrReplaceFailed)
	}
	res := ImportResult{Sessions: len(snap.Sessions)}
	if snap.hasRatings {
		ratings := snap.Ratings
		if ratings == nil {
			ratings = []rating.Rating{}
		}
		if !dst.ReplaceRatings(ctx, ratings) {
			return res, fmt.Errorf("%w: ratings", ErrReplaceFailed)
		}
		res.Ratings = len(ratings)
		res.RatingsReplaced = true
	}
	return res, nil
}
