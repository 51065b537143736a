// Package tag implements the Tag repository using PostgreSQL.
// Tags are keyed by slug; the first name seen for a slug is kept.
package tag

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// Repo provides tag persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tag repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// The no-op update makes the conflict branch return the existing row, also
// when a concurrent transaction inserted it; xmax = 0 only on a fresh insert.
const getOrCreateSQL = `
INSERT INTO tags (name, slug)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
RETURNING id, name, slug, created_at, (xmax = 0) AS created`

const getBySlugSQL = `SELECT id, name, slug, created_at FROM tags WHERE slug = $1`

const countSQL = `SELECT count(*) FROM tags`

// GetOrCreate returns the tag with the given slug, inserting it under name when absent.
// An empty slug is rejected with domain.ErrValidation.
func (r *Repo) GetOrCreate(ctx context.Context, name, slug string) (*domain.Tag, bool, error) {
	if slug == "" {
		return nil, false, domain.NewValidationError("slug", "required")
	}

	var (
		t       domain.Tag
		created bool
	)
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getOrCreateSQL, name, slug).
		Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &created)
	if err != nil {
		return nil, false, postgres.MapError(err, "tag", slug)
	}

	return &t, created, nil
}

// GetBySlug returns a tag by slug. Returns domain.ErrNotFound if absent.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	var t domain.Tag
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getBySlugSQL, slug).
		Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "tag", slug)
	}
	return &t, nil
}

// Count returns the total number of tags.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var count int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return count, nil
}
