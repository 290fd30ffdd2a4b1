package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Child is a registered child.
type Child struct {
	ID        string
	Name      string
	BirthDate time.Time // zero when unknown
	CreatedAt time.Time
}

// ChildSummary is a child plus history counters for listings.
type ChildSummary struct {
	Child
	Results       int
	LastPlayed    time.Time
	LastProfileAt time.Time
}

// ChildRepo manages children.
type ChildRepo interface {
	// Upsert inserts the child or updates its name and birth date. Empty
	// fields of c never overwrite stored values.
	Upsert(ctx context.Context, c Child) error

	// Get returns the child or ErrNotFound.
	Get(ctx context.Context, id string) (*Child, error)

	// List returns every child with counters, ordered by ID.
	List(ctx context.Context) ([]ChildSummary, error)
}

type childRepo struct {
	drv *entsql.Driver
}

func (r *childRepo) Upsert(ctx context.Context, c Child) error {
	if c.ID == "" {
		return fmt.Errorf("upsert child: empty id")
	}
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	existing, err := r.Get(ctx, c.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		q, args := sqlBuilder().Insert("children").
			Columns("id", "name", "birth_date", "created_at").
			Values(c.ID, c.Name, toMillis(c.BirthDate), created.UnixMilli()).
			Query()
		if err := r.drv.Exec(ctx, q, args, nil); err != nil {
			return fmt.Errorf("insert child: %w", err)
		}
		return nil
	case err != nil:
		return err
	}

	name, birth := existing.Name, existing.BirthDate
	if c.Name != "" {
		name = c.Name
	}
	if !c.BirthDate.IsZero() {
		birth = c.BirthDate
	}
	q, args := sqlBuilder().Update("children").
		Set("name", name).
		Set("birth_date", toMillis(birth)).
		Where(entsql.EQ("id", c.ID)).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("update child: %w", err)
	}
	return nil
}

func (r *childRepo) Get(ctx context.Context, id string) (*Child, error) {
	q, args := sqlBuilder().Select("id", "name", "birth_date", "created_at").
		From(entsql.Table("children")).
		Where(entsql.EQ("id", id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query child: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query child: %w", err)
		}
		return nil, ErrNotFound
	}
	var (
		c              Child
		birth, created int64
	)
	if err := rows.Scan(&c.ID, &c.Name, &birth, &created); err != nil {
		return nil, fmt.Errorf("scan child: %w", err)
	}
	c.BirthDate = fromMillis(birth)
	c.CreatedAt = fromMillis(created)
	return &c, nil
}

func (r *childRepo) List(ctx context.Context) ([]ChildSummary, error) {
	const q = `SELECT c.id, c.name, c.birth_date, c.created_at,
		(SELECT COUNT(*) FROM game_results g WHERE g.child_id = c.id),
		(SELECT COALESCE(MAX(g.played_at), 0) FROM game_results g WHERE g.child_id = c.id),
		(SELECT COALESCE(MAX(p.created_at), 0) FROM profiles p WHERE p.child_id = c.id)
		FROM children c ORDER BY c.id`

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, []any{}, &rows); err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var out []ChildSummary
	for rows.Next() {
		var (
			s                                ChildSummary
			birth, created, played, profiled int64
		)
		if err := rows.Scan(&s.ID, &s.Name, &birth, &created, &s.Results, &played, &profiled); err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		s.BirthDate = fromMillis(birth)
		s.CreatedAt = fromMillis(created)
		s.LastPlayed = fromMillis(played)
		s.LastProfileAt = fromMillis(profiled)
		out = append(out, s)
	}
	return out, rows.Err()
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
