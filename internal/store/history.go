package store

import (
	"context"

	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/session"
)

// LoadHistory returns the stored sessions in first-insertion order.
func (s *Store) LoadHistory(ctx context.Context) []session.Session {
	return loadRecords(ctx, s, tableHistory, (*session.Session).Check)
}

// UpsertHistory stores sess, replacing an existing entry with the same id in
// place or appending otherwise. Sessions without an id or dominant emotion
// are refused.
func (s *Store) UpsertHistory(ctx context.Context, sess session.Session) bool {
	if sess.ID == "" || sess.Dominant == "" {
		s.log.Warn("refusing incomplete history entry", "record_id", sess.ID)
		return false
	}
	r, err := encodeRecord(sess.ID, sess)
	if err != nil {
		s.log.Error("upsert history", "error", err)
		return false
	}
	if err := insertRecord(ctx, s.drv, tableHistory, r, true); err != nil {
		s.log.Error("upsert history", "record_id", sess.ID, "error", err)
		return false
	}
	return true
}

// RemoveSession deletes the history entry with id. It reports false when no
// such entry exists.
func (s *Store) RemoveSession(ctx context.Context, id string) bool {
	return s.removeRecord(ctx, tableHistory, id)
}

// ClearHistory deletes every history entry.
func (s *Store) ClearHistory(ctx context.Context) bool {
	return s.clearTable(ctx, tableHistory)
}

// ReplaceHistory swaps the whole history for sessions, keeping their order.
func (s *Store) ReplaceHistory(ctx context.Context, sessions []session.Session) bool {
	recs := make([]record, 0, len(sessions))
	for _, sess := range sessions {
		r, err := encodeRecord(sess.ID, sess)
		if err != nil {
			s.log.Error("replace history", "error", err)
			return false
		}
		recs = append(recs, r)
	}
	return s.replaceTable(ctx, tableHistory, recs)
}

// LoadRatings returns the stored ratings in submission order.
func (s *Store) LoadRatings(ctx context.Context) []rating.Rating {
	return loadRecords(ctx, s, tableRatings, func(r *rating.Rating) error { return r.Check() })
}

// AppendRating adds r to the ratings collection. Ratings are never
// overwritten; a duplicate id is refused.
func (s *Store) AppendRating(ctx context.Context, r rating.Rating) bool {
	rec, err := encodeRecord(r.ID, r)
	if err != nil {
		s.log.Error("append rating", "error", err)
		return false
	}
	if err := insertRecord(ctx, s.drv, tableRatings, rec, false); err != nil {
		s.log.Error("append rating", "record_id", r.ID, "error", err)
		return false
	}
	return true
}

// RemoveRating deletes the rating with id and reports whether it existed.
func (s *Store) RemoveRating(ctx context.Context, id string) bool {
	return s.removeRecord(ctx, tableRatings, id)
}

// ClearRatings deletes every rating.
func (s *Store) ClearRatings(ctx context.Context) bool {
	return s.clearTable(ctx, tableRatings)
}

// ReplaceRatings swaps the whole ratings collection for ratings.
func (s *Store) ReplaceRatings(ctx context.Context, ratings []rating.Rating) bool {
	recs := make([]record, 0, len(ratings))
	for _, r := range ratings {
		rec, err := encodeRecord(r.ID, r)
		if err != nil {
			s.log.Error("replace ratings", "error", err)
			return false
		}
		recs = append(recs, rec)
	}
	return s.replaceTable(ctx, tableRatings, recs)
}
