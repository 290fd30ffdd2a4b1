package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/happykids/kidsdiag/internal/games"
)

// ResultRepo stores game results. Records are serialized whole into the
// payload column; the indexed columns only serve lookups.
type ResultRepo interface {
	// Append stores records under one import batch and returns the batch
	// number. Records with an existing ID replace the stored row.
	Append(ctx context.Context, records []games.Record) (int64, error)

	// ForChild returns up to limit of the child's most recent records in
	// chronological order. A limit of 0 returns the full history.
	ForChild(ctx context.Context, childID string, limit int) ([]games.Record, error)

	// Count returns the number of records stored for the child.
	Count(ctx context.Context, childID string) (int, error)
}

type resultRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *resultRepo) Append(ctx context.Context, records []games.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	batch, err := r.seq.Next(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin results: %w", err)
	}
	for chunk := range slices.Chunk(records, appendChunkRows) {
		if err := insertResults(ctx, tx, batch, chunk); err != nil {
			_ = tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit results: %w", err)
	}
	return batch, nil
}

// appendChunkRows keeps one INSERT under SQLite's bound-variable limit
// (six per row).
const appendChunkRows = 1000

func insertResults(ctx context.Context, tx dialect.ExecQuerier, batch int64, records []games.Record) error {
	ins := sqlBuilder().Insert("game_results").
		Columns("id", "child_id", "batch", "activity", "played_at", "payload")
	for _, rec := range records {
		if rec.ID == "" || rec.ChildID == "" {
			return fmt.Errorf("append result: record needs id and child_id")
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal result %s: %w", rec.ID, err)
		}
		ins.Values(rec.ID, rec.ChildID, batch, string(rec.Activity), toMillis(rec.PlayedAt), payload)
	}
	ins.OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())

	q, args := ins.Query()
	if err := tx.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("insert results: %w", err)
	}
	return nil
}

func (r *resultRepo) ForChild(ctx context.Context, childID string, limit int) ([]games.Record, error) {
	sel := sqlBuilder().Select("payload").
		From(entsql.Table("game_results")).
		Where(entsql.EQ("child_id", childID)).
		OrderBy(entsql.Desc("played_at"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	q, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []games.Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var rec games.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}

func (r *resultRepo) Count(ctx context.Context, childID string) (int, error) {
	q, args := sqlBuilder().Select(entsql.Count("*")).
		From(entsql.Table("game_results")).
		Where(entsql.EQ("child_id", childID)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	defer rows.Close()

	n, err := entsql.ScanInt(rows)
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

// RecordsFor loads a child's history for profile building.
func (s *Store) RecordsFor(ctx context.Context, childID string, limit int) ([]games.Record, error) {
	return s.ResultRepo().ForChild(ctx, childID, limit)
}
