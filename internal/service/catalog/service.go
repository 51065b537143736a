package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/adcatalog-backend/internal/config"
	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type catalogRepo interface {
	CountAds(ctx context.Context, f domain.AdFilter) (int, error)
	ListAds(ctx context.Context, f domain.AdFilter) ([]domain.AdSummary, error)
	ListBrands(ctx context.Context) ([]domain.OrgSummary, error)
	ListAgencies(ctx context.Context) ([]domain.OrgSummary, error)
	GetBrand(ctx context.Context, slug string) (*domain.OrgSummary, error)
	GetAgency(ctx context.Context, slug string) (*domain.OrgSummary, error)
	ListTags(ctx context.Context) ([]domain.TagSummary, error)
}

type adRepo interface {
	GetByVideoID(ctx context.Context, videoID string) (*domain.Ad, error)
	TagSlugs(ctx context.Context, adID uuid.UUID) ([]string, error)
}

type creditRepo interface {
	GetOrCreatePerson(ctx context.Context, name string) (*domain.Person, bool, error)
	Add(ctx context.Context, c *domain.Credit) (bool, error)
	ListByAd(ctx context.Context, adID uuid.UUID) ([]domain.AdCredit, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the catalog read operations and credit entry.
type Service struct {
	log     *slog.Logger
	repo    catalogRepo
	ads     adRepo
	credits creditRepo
	tx      txManager
	cfg     config.CatalogConfig
}

// NewService creates a new catalog service.
func NewService(
	logger *slog.Logger,
	repo catalogRepo,
	ads adRepo,
	credits creditRepo,
	tx txManager,
	cfg config.CatalogConfig,
) *Service {
	return &Service{
		log:     logger.With("service", "catalog"),
		repo:    repo,
		ads:     ads,
		credits: credits,
		tx:      tx,
		cfg:     cfg,
	}
}

// RecentAds returns the newest ads, up to the configured home limit.
func (s *Service) RecentAds(ctx context.Context) ([]domain.AdSummary, error) {
	return s.repo.ListAds(ctx, domain.AdFilter{Limit: s.cfg.HomeLimit})
}

// Brands returns every brand with its ad count and average rating.
func (s *Service) Brands(ctx context.Context) ([]domain.OrgSummary, error) {
	return s.repo.ListBrands(ctx)
}

// Agencies returns every agency with its ad count and average rating.
func (s *Service) Agencies(ctx context.Context) ([]domain.OrgSummary, error) {
	return s.repo.ListAgencies(ctx)
}

// Tags returns every tag ordered by name.
func (s *Service) Tags(ctx context.Context) ([]domain.TagSummary, error) {
	return s.repo.ListTags(ctx)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func clampLimit(limit, min, max, defaultVal int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit < min {
		return min
	}
	if limit > max {
		return max
	}
	return limit
}
