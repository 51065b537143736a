package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// Search returns one page of ads matching input. A page past the end yields
// the last page.
func (s *Service) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	filter := domain.AdFilter{
		Query:      domain.NormalizeSearchText(input.Query),
		TagSlug:    strings.TrimSpace(input.TagSlug),
		Year:       input.Year,
		BrandSlug:  strings.TrimSpace(input.BrandSlug),
		AgencySlug: strings.TrimSpace(input.AgencySlug),
	}

	res, err := s.page(ctx, filter, input.Page, input.PageSize)
	if err != nil {
		return nil, fmt.Errorf("search ads: %w", err)
	}

	s.log.DebugContext(ctx, "ads searched",
		slog.String("q", filter.Query),
		slog.String("tag", filter.TagSlug),
		slog.Int("total", res.Total),
		slog.Int("page", res.Page),
	)
	return res, nil
}

// BrandDetail returns the brand with slug and one page of its ads.
func (s *Service) BrandDetail(ctx context.Context, input DetailInput) (*OrgDetail, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	org, err := s.repo.GetBrand(ctx, input.Slug)
	if err != nil {
		return nil, err
	}

	ads, err := s.page(ctx, domain.AdFilter{BrandSlug: input.Slug}, input.Page, input.PageSize)
	if err != nil {
		return nil, fmt.Errorf("brand ads: %w", err)
	}
	return &OrgDetail{Org: *org, Ads: *ads}, nil
}

// AgencyDetail returns the agency with slug and one page of its ads.
func (s *Service) AgencyDetail(ctx context.Context, input DetailInput) (*OrgDetail, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	org, err := s.repo.GetAgency(ctx, input.Slug)
	if err != nil {
		return nil, err
	}

	ads, err := s.page(ctx, domain.AdFilter{AgencySlug: input.Slug}, input.Page, input.PageSize)
	if err != nil {
		return nil, fmt.Errorf("agency ads: %w", err)
	}
	return &OrgDetail{Org: *org, Ads: *ads}, nil
}

// page counts the matches first so an out-of-range page can be pulled back
// to the last one before listing.
func (s *Service) page(ctx context.Context, filter domain.AdFilter, page, pageSize int) (*SearchResult, error) {
	size := clampLimit(pageSize, 1, s.cfg.MaxPageSize, s.cfg.DefaultPageSize)

	total, err := s.repo.CountAds(ctx, filter)
	if err != nil {
		return nil, err
	}

	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	res := &SearchResult{
		Items:    []domain.AdSummary{},
		Total:    total,
		Page:     page,
		PageSize: size,
		Pages:    pages,
	}
	if total == 0 {
		return res, nil
	}

	filter.Limit = size
	filter.Offset = (page - 1) * size
	items, err := s.repo.ListAds(ctx, filter)
	if err != nil {
		return nil, err
	}
	res.Items = items
	return res, nil
}
