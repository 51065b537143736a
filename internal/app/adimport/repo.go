// Package adimport loads ads from a delimited text file into the catalog.
//
// A run reads the whole file, resolves the header once, validates each row
// without touching the store, and writes every valid row inside a single
// transactional scope that is committed or, for a dry run, discarded.
package adimport

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// BrandStore looks brands up by unique name. Implemented by brand.Repo.
type BrandStore interface {
	GetOrCreate(ctx context.Context, name, slug string) (*domain.Brand, bool, error)
}

// AgencyStore looks agencies up by unique name. Implemented by agency.Repo.
type AgencyStore interface {
	GetOrCreate(ctx context.Context, name, slug string) (*domain.Agency, bool, error)
}

// TagStore looks tags up by slug. Implemented by tag.Repo.
type TagStore interface {
	GetOrCreate(ctx context.Context, name, slug string) (*domain.Tag, bool, error)
}

// AdStore upserts ads by video ID and maintains their tag links. Implemented by ad.Repo.
type AdStore interface {
	Upsert(ctx context.Context, ad *domain.Ad) (uuid.UUID, bool, error)
	ReplaceTags(ctx context.Context, adID uuid.UUID, tagIDs []uuid.UUID) error
	AddTags(ctx context.Context, adID uuid.UUID, tagIDs []uuid.UUID) (int, error)
}

// TxScope runs fn in one transaction that is committed, or discarded when discard is true.
// Implemented by postgres.TxManager.
type TxScope interface {
	RunInScope(ctx context.Context, discard bool, fn func(ctx context.Context) error) error
}

// Stores groups the entity stores a run writes to.
type Stores struct {
	Brands   BrandStore
	Agencies AgencyStore
	Tags     TagStore
	Ads      AdStore
}
