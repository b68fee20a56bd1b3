package store

import (
	"context"
	"encoding/json"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/emotiquest/emotiquest/internal/session"
)

// Singleton slot keys. The names match the browser storage keys of earlier
// releases so exported data stays recognizable.
const (
	KeyCurrentUser    = "emotiquest_usuario_actual"
	KeyCurrentSession = "emotiquest_sesion_actual"
)

func (s *Store) putKV(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encode slot", "key", key, "error", err)
		return false
	}
	q, args := entsql.Dialect(dialect.SQLite).
		Insert(tableKV).
		Columns(colKey, colValue, colUpdatedAt).
		Values(key, string(data), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns(colKey),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := s.drv.Exec(ctx, q, args, nil); err != nil {
		s.log.Error("write slot", "key", key, "error", err)
		return false
	}
	return true
}

// getKV decodes the slot into v. It reports false when the slot is empty or
// unreadable.
func (s *Store) getKV(ctx context.Context, key string, v any) bool {
	q, args := entsql.Dialect(dialect.SQLite).
		Select(colValue).
		From(entsql.Table(tableKV)).
		Where(entsql.EQ(colKey, key)).
		Query()
	var rows entsql.Rows
	if err := s.drv.Query(ctx, q, args, &rows); err != nil {
		s.log.Error("read slot", "key", key, "error", err)
		return false
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			s.log.Error("read slot", "key", key, "error", err)
		}
		return false
	}
	var raw string
	if err := rows.Scan(&raw); err != nil {
		s.log.Error("scan slot", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.log.Warn("malformed slot ignored", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) deleteKV(ctx context.Context, key string) bool {
	q, args := entsql.Dialect(dialect.SQLite).
		Delete(tableKV).
		Where(entsql.EQ(colKey, key)).
		Query()
	if err := s.drv.Exec(ctx, q, args, nil); err != nil {
		s.log.Error("clear slot", "key", key, "error", err)
		return false
	}
	return true
}

// SaveCurrentUser stores the signed-in profile.
func (s *Store) SaveCurrentUser(ctx context.Context, p session.Profile) bool {
	return s.putKV(ctx, KeyCurrentUser, p)
}

// LoadCurrentUser returns the signed-in profile. A malformed slot loads as
// none.
func (s *Store) LoadCurrentUser(ctx context.Context) (session.Profile, bool) {
	var p session.Profile
	if !s.getKV(ctx, KeyCurrentUser, &p) {
		return session.Profile{}, false
	}
	if err := p.Check(); err != nil {
		s.log.Warn("invalid current user ignored", "error", err)
		return session.Profile{}, false
	}
	return p, true
}

// ClearCurrentUser empties the current user slot.
func (s *Store) ClearCurrentUser(ctx context.Context) bool {
	return s.deleteKV(ctx, KeyCurrentUser)
}

// SaveCurrentSession stores the in-progress session.
func (s *Store) SaveCurrentSession(ctx context.Context, sess *session.Session) bool {
	if sess == nil {
		return false
	}
	return s.putKV(ctx, KeyCurrentSession, sess)
}

// LoadCurrentSession returns the in-progress session.
func (s *Store) LoadCurrentSession(ctx context.Context) (*session.Session, bool) {
	var sess session.Session
	if !s.getKV(ctx, KeyCurrentSession, &sess) {
		return nil, false
	}
	if err := sess.Check(); err != nil {
		s.log.Warn("invalid current session ignored", "error", err)
		return nil, false
	}
	return &sess, true
}

// ClearCurrentSession empties the current session slot.
func (s *Store) ClearCurrentSession(ctx context.Context) bool {
	return s.deleteKV(ctx, KeyCurrentSession)
}
