package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// ProfileSnapshot is a persisted diagnostic report. Data holds the report
// JSON as produced by the engine.
type ProfileSnapshot struct {
	ID        int64
	ChildID   string
	CreatedAt time.Time
	Records   int
	Data      json.RawMessage
}

// ProfileRepo manages diagnostic profile snapshots.
type ProfileRepo interface {
	// Save stores a new snapshot and sets its ID.
	Save(ctx context.Context, snap *ProfileSnapshot) error

	// Latest returns the child's most recent snapshot, or nil if none exist.
	Latest(ctx context.Context, childID string) (*ProfileSnapshot, error)

	// Prune deletes all but the N most recent snapshots of the child.
	Prune(ctx context.Context, childID string, keep int) error

	// Count returns the number of snapshots stored for the child.
	Count(ctx context.Context, childID string) (int, error)
}

type profileRepo struct {
	drv      *entsql.Driver
	compress bool
}

func (r *profileRepo) Save(ctx context.Context, snap *ProfileSnapshot) error {
	codec, data, err := encodePayload(snap.Data, r.compress)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	q, args := sqlBuilder().Insert("profiles").
		Columns("child_id", "created_at", "records", "codec", "data").
		Values(snap.ChildID, snap.CreatedAt.UnixMilli(), snap.Records, codec, data).
		Returning("id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	defer rows.Close()
	id, err := entsql.ScanInt64(rows)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	snap.ID = id
	return nil
}

func (r *profileRepo) Latest(ctx context.Context, childID string) (*ProfileSnapshot, error) {
	q, args := sqlBuilder().Select("id", "child_id", "created_at", "records", "codec", "data").
		From(entsql.Table("profiles")).
		Where(entsql.EQ("child_id", childID)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query latest profile: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var (
		snap    ProfileSnapshot
		created int64
		codec   string
		data    []byte
	)
	if err := rows.Scan(&snap.ID, &snap.ChildID, &created, &snap.Records, &codec, &data); err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	raw, err := decodePayload(codec, data)
	if err != nil {
		return nil, fmt.Errorf("decode profile %d: %w", snap.ID, err)
	}
	snap.CreatedAt = fromMillis(created)
	snap.Data = raw
	return &snap, nil
}

func (r *profileRepo) Prune(ctx context.Context, childID string, keep int) error {
	// Find the ID threshold: the newest snapshot that falls outside keep.
	q, args := sqlBuilder().Select("id").
		From(entsql.Table("profiles")).
		Where(entsql.EQ("child_id", childID)).
		OrderBy(entsql.Desc("id")).
		Offset(keep).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return fmt.Errorf("query profiles for prune: %w", err)
	}
	var threshold int64
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	err := rows.Err()
	rows.Close()
	if err != nil {
		return fmt.Errorf("query profiles for prune: %w", err)
	}
	if !found {
		return nil // fewer than keep snapshots exist
	}

	dq, dargs := sqlBuilder().Delete("profiles").
		Where(entsql.And(entsql.EQ("child_id", childID), entsql.LTE("id", threshold))).
		Query()
	if err := r.drv.Exec(ctx, dq, dargs, nil); err != nil {
		return fmt.Errorf("prune profiles: %w", err)
	}
	return nil
}

func (r *profileRepo) Count(ctx context.Context, childID string) (int, error) {
	q, args := sqlBuilder().Select(entsql.Count("*")).
		From(entsql.Table("profiles")).
		Where(entsql.EQ("child_id", childID)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	defer rows.Close()
	return entsql.ScanInt(rows)
}
