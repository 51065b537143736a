// Package agency implements the Agency repository using PostgreSQL.
// Agencies are looked up or created by their unique name, same as brands.
package agency

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// Repo provides agency persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new agency repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `id, name, slug, website, city, country, created_at`

// The no-op update makes the conflict branch return the existing row, also
// when a concurrent transaction inserted it; xmax = 0 only on a fresh insert.
const getOrCreateSQL = `
INSERT INTO agencies (name, slug)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING ` + columns + `, (xmax = 0) AS created`

const getBySlugSQL = `SELECT ` + columns + ` FROM agencies WHERE slug = $1`

const getByNameSQL = `SELECT ` + columns + ` FROM agencies WHERE name = $1`

const countSQL = `SELECT count(*) FROM agencies`

// GetOrCreate returns the agency with the given name, inserting it with slug
// when absent. An empty slug is stored as NULL. created reports whether a row was inserted.
func (r *Repo) GetOrCreate(ctx context.Context, name, slug string) (*domain.Agency, bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var sp *string
	if slug != "" {
		sp = &slug
	}

	var (
		a       domain.Agency
		created bool
	)
	err := q.QueryRow(ctx, getOrCreateSQL, name, sp).
		Scan(&a.ID, &a.Name, &a.Slug, &a.Website, &a.City, &a.Country, &a.CreatedAt, &created)
	if err != nil {
		return nil, false, postgres.MapError(err, "agency", name)
	}

	return &a, created, nil
}

// GetBySlug returns an agency by slug. Returns domain.ErrNotFound if absent.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Agency, error) {
	return r.getOne(ctx, getBySlugSQL, slug)
}

// GetByName returns an agency by exact name. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByName(ctx context.Context, name string) (*domain.Agency, error) {
	return r.getOne(ctx, getByNameSQL, name)
}

// Count returns the total number of agencies.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var count int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count agencies: %w", err)
	}
	return count, nil
}

func (r *Repo) getOne(ctx context.Context, sql, key string) (*domain.Agency, error) {
	a, err := scanAgency(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, key))
	if err != nil {
		return nil, postgres.MapError(err, "agency", key)
	}
	return &a, nil
}

func scanAgency(row pgx.Row) (domain.Agency, error) {
	var a domain.Agency
	err := row.Scan(&a.ID, &a.Name, &a.Slug, &a.Website, &a.City, &a.Country, &a.CreatedAt)
	return a, err
}
