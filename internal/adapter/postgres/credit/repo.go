// Package credit stores the people credited on ads and their roles.
package credit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// Repo provides person and credit persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new credit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// The no-op update returns the existing row on conflict; xmax = 0 only on insert.
const getOrCreatePersonSQL = `
INSERT INTO people (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id, name, website, created_at, (xmax = 0) AS created`

const addSQL = `
INSERT INTO credits (ad_id, person_id, role, company_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (ad_id, person_id, role) DO NOTHING
RETURNING id`

const listByAdSQL = `
SELECT c.role, p.name, g.name
FROM credits c
JOIN people p ON p.id = c.person_id
LEFT JOIN agencies g ON g.id = c.company_id
WHERE c.ad_id = $1
ORDER BY c.added_at, c.id`

// GetOrCreatePerson returns the person with the given name, inserting it when absent.
func (r *Repo) GetOrCreatePerson(ctx context.Context, name string) (*domain.Person, bool, error) {
	if name == "" {
		return nil, false, domain.NewValidationError("name", "required")
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		p       domain.Person
		created bool
	)
	err := q.QueryRow(ctx, getOrCreatePersonSQL, name).
		Scan(&p.ID, &p.Name, &p.Website, &p.CreatedAt, &created)
	if err != nil {
		return nil, false, postgres.MapError(err, "person", name)
	}
	return &p, created, nil
}

// Add records c unless the same person already holds that role on the ad.
// It reports whether a row was inserted and fills c.ID when it was.
func (r *Repo) Add(ctx context.Context, c *domain.Credit) (bool, error) {
	if !c.Role.IsValid() {
		return false, domain.NewValidationError("role", fmt.Sprintf("unknown credit role %q", c.Role))
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var id uuid.UUID
	err := q.QueryRow(ctx, addSQL, c.AdID, c.PersonID, string(c.Role), c.CompanyID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, postgres.MapError(err, "credit", c.AdID)
	}
	c.ID = id
	return true, nil
}

// ListByAd returns the credits of an ad in the order they were added.
func (r *Repo) ListByAd(ctx context.Context, adID uuid.UUID) ([]domain.AdCredit, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByAdSQL, adID)
	if err != nil {
		return nil, postgres.MapError(err, "credits", adID)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AdCredit, error) {
		var (
			c    domain.AdCredit
			role string
		)
		if err := row.Scan(&role, &c.PersonName, &c.CompanyName); err != nil {
			return c, err
		}
		c.Role = domain.CreditRole(role)
		c.RoleLabel = c.Role.Label()
		return c, nil
	})
	if err != nil {
		return nil, postgres.MapError(err, "credits", adID)
	}
	if out == nil {
		out = []domain.AdCredit{}
	}
	return out, nil
}
