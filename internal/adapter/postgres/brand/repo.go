// Package brand implements the Brand repository using PostgreSQL.
// Brands are looked up or created by their unique name.
package brand

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// Repo provides brand persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new brand repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// The no-op update makes the conflict branch return the existing row, also
// when a concurrent transaction inserted it; xmax = 0 only on a fresh insert.
const getOrCreateSQL = `
INSERT INTO brands (name, slug)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id, name, slug, website, created_at, (xmax = 0) AS created`

const getBySlugSQL = `
SELECT id, name, slug, website, created_at FROM brands WHERE slug = $1`

const getByNameSQL = `
SELECT id, name, slug, website, created_at FROM brands WHERE name = $1`

const countSQL = `SELECT count(*) FROM brands`

// GetOrCreate returns the brand with the given name, inserting it with slug
// when absent. An empty slug is stored as NULL. created reports whether a row was inserted.
// A slug already owned by a differently named brand yields domain.ErrAlreadyExists.
func (r *Repo) GetOrCreate(ctx context.Context, name, slug string) (*domain.Brand, bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		b       domain.Brand
		created bool
	)
	err := q.QueryRow(ctx, getOrCreateSQL, name, nullable(slug)).
		Scan(&b.ID, &b.Name, &b.Slug, &b.Website, &b.CreatedAt, &created)
	if err != nil {
		return nil, false, postgres.MapError(err, "brand", name)
	}

	return &b, created, nil
}

// GetBySlug returns a brand by slug. Returns domain.ErrNotFound if absent.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Brand, error) {
	return r.getOne(ctx, getBySlugSQL, slug)
}

// GetByName returns a brand by exact name. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByName(ctx context.Context, name string) (*domain.Brand, error) {
	return r.getOne(ctx, getByNameSQL, name)
}

// Count returns the total number of brands.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var count int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count brands: %w", err)
	}
	return count, nil
}

func (r *Repo) getOne(ctx context.Context, sql, key string) (*domain.Brand, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, key)

	b, err := scanBrand(row)
	if err != nil {
		return nil, postgres.MapError(err, "brand", key)
	}
	return &b, nil
}

func scanBrand(row pgx.Row) (domain.Brand, error) {
	var b domain.Brand
	err := row.Scan(&b.ID, &b.Name, &b.Slug, &b.Website, &b.CreatedAt)
	return b, err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
