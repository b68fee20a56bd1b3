package store

import (
	"context"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// RecordView increments the view counter of resource and returns the new
// count.
func (s *Store) RecordView(ctx context.Context, resource string) (int, bool) {
	if resource == "" {
		return 0, false
	}
	q, args := entsql.Dialect(dialect.SQLite).
		Insert(tableViews).
		Columns(colResource, colCount).
		Values(resource, 1).
		OnConflict(
			entsql.ConflictColumns(colResource),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.Add(colCount, 1)
			}),
		).
		Returning(colCount).
		Query()
	var rows entsql.Rows
	if err := s.drv.Query(ctx, q, args, &rows); err != nil {
		s.log.Error("record view", "resource", resource, "error", err)
		return 0, false
	}
	defer rows.Close()
	n, err := entsql.ScanInt(rows)
	if err != nil {
		s.log.Error("record view", "resource", resource, "error", err)
		return 0, false
	}
	return n, true
}

// ViewCounts returns the view count per resource.
func (s *Store) ViewCounts(ctx context.Context) map[string]int {
	out := map[string]int{}
	q, args := entsql.Dialect(dialect.SQLite).
		Select(colResource, colCount).
		From(entsql.Table(tableViews)).
		Query()
	var rows entsql.Rows
	if err := s.drv.Query(ctx, q, args, &rows); err != nil {
		s.log.Error("load view counts", "error", err)
		return out
	}
	defer rows.Close()
	for rows.Next() {
		var (
			resource string
			n        int
		)
		if err := rows.Scan(&resource, &n); err != nil {
			s.log.Error("scan view count", "error", err)
			continue
		}
		out[resource] = n
	}
	return out
}
