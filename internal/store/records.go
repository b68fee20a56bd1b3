package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// record is one row of an ordered JSON collection table.
type record struct {
	id   string
	data []byte
}

// loadRecords reads table in insertion order and decodes every row. Rows
// that fail to decode or check are skipped with a warning.
func loadRecords[T any](ctx context.Context, s *Store, table string, check func(*T) error) []T {
	q, args := entsql.Dialect(dialect.SQLite).
		Select(colRecordID, colData).
		From(entsql.Table(table)).
		OrderBy(entsql.Asc(colSeq)).
		Query()
	var rows entsql.Rows
	if err := s.drv.Query(ctx, q, args, &rows); err != nil {
		s.log.Error("load collection", "table", table, "error", err)
		return []T{}
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			s.log.Error("scan collection row", "table", table, "error", err)
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			s.log.Warn("malformed row skipped", "table", table, "record_id", id, "error", err)
			continue
		}
		if err := check(&v); err != nil {
			s.log.Warn("invalid row skipped", "table", table, "record_id", id, "error", err)
			continue
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		s.log.Error("load collection", "table", table, "error", err)
	}
	return out
}

func encodeRecord(id string, v any) (record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return record{}, fmt.Errorf("encode %s: %w", id, err)
	}
	return record{id: id, data: data}, nil
}

// insertRecord appends r to table. With upsert set, an existing row with the
// same id gets the new data and keeps its position.
func insertRecord(ctx context.Context, ex dialect.ExecQuerier, table string, r record, upsert bool) error {
	b := entsql.Dialect(dialect.SQLite).
		Insert(table).
		Columns(colRecordID, colData, colUpdatedAt).
		Values(r.id, string(r.data), time.Now().UTC())
	if upsert {
		b.OnConflict(
			entsql.ConflictColumns(colRecordID),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded(colData)
				u.SetExcluded(colUpdatedAt)
			}),
		)
	}
	q, args := b.Query()
	return ex.Exec(ctx, q, args, nil)
}

// removeRecord deletes the row with id and reports whether one existed.
func (s *Store) removeRecord(ctx context.Context, table, id string) bool {
	q, args := entsql.Dialect(dialect.SQLite).
		Delete(table).
		Where(entsql.EQ(colRecordID, id)).
		Query()
	var res sql.Result
	if err := s.drv.Exec(ctx, q, args, &res); err != nil {
		s.log.Error("remove record", "table", table, "record_id", id, "error", err)
		return false
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.log.Error("remove record", "table", table, "record_id", id, "error", err)
		return false
	}
	return n > 0
}

// clearTable deletes every row of table. Clearing an empty table succeeds.
func (s *Store) clearTable(ctx context.Context, table string) bool {
	q, args := entsql.Dialect(dialect.SQLite).Delete(table).Query()
	if err := s.drv.Exec(ctx, q, args, nil); err != nil {
		s.log.Error("clear collection", "table", table, "error", err)
		return false
	}
	return true
}

// replaceTable swaps the contents of table for recs in one transaction.
func (s *Store) replaceTable(ctx context.Context, table string, recs []record) bool {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		s.log.Error("begin replace", "table", table, "error", err)
		return false
	}
	q, args := entsql.Dialect(dialect.SQLite).Delete(table).Query()
	if err := tx.Exec(ctx, q, args, nil); err != nil {
		return s.rollback(tx, table, err)
	}
	for _, r := range recs {
		if err := insertRecord(ctx, tx, table, r, true); err != nil {
			return s.rollback(tx, table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		s.log.Error("commit replace", "table", table, "error", err)
		return false
	}
	return true
}

func (s *Store) rollback(tx dialect.Tx, table string, cause error) bool {
	s.log.Error("replace collection", "table", table, "error", cause)
	if err := tx.Rollback(); err != nil {
		s.log.Error("rollback replace", "table", table, "error", err)
	}
	return false
}
