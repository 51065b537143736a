package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// AdDetail returns the ad behind a video reference (an ID or any accepted
// YouTube URL) with its tags and credits.
func (s *Service) AdDetail(ctx context.Context, videoRef string) (*AdDetail, error) {
	ad, err := s.lookupAd(ctx, videoRef)
	if err != nil {
		return nil, err
	}

	tags, err := s.ads.TagSlugs(ctx, ad.ID)
	if err != nil {
		return nil, fmt.Errorf("ad tags: %w", err)
	}

	credits, err := s.credits.ListByAd(ctx, ad.ID)
	if err != nil {
		return nil, fmt.Errorf("ad credits: %w", err)
	}

	return &AdDetail{Ad: *ad, Tags: tags, Credits: credits}, nil
}

// AddCredit credits a person on an ad, creating the person when needed.
// It reports false when the person already held that role on the ad.
func (s *Service) AddCredit(ctx context.Context, input CreditInput) (bool, error) {
	if err := input.Validate(); err != nil {
		return false, err
	}

	ad, err := s.lookupAd(ctx, input.VideoRef)
	if err != nil {
		return false, err
	}

	var companyID *uuid.UUID
	if slug := strings.TrimSpace(input.AgencySlug); slug != "" {
		org, err := s.repo.GetAgency(ctx, slug)
		if err != nil {
			return false, fmt.Errorf("company: %w", err)
		}
		companyID = &org.ID
	}

	var added bool
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		person, _, err := s.credits.GetOrCreatePerson(ctx, strings.TrimSpace(input.Person))
		if err != nil {
			return fmt.Errorf("person: %w", err)
		}
		added, err = s.credits.Add(ctx, &domain.Credit{
			AdID:      ad.ID,
			PersonID:  person.ID,
			Role:      input.Role,
			CompanyID: companyID,
		})
		return err
	})
	if err != nil {
		return false, err
	}

	s.log.InfoContext(ctx, "credit added",
		slog.String("video_id", ad.VideoID),
		slog.String("role", input.Role.String()),
		slog.Bool("added", added),
	)
	return added, nil
}

func (s *Service) lookupAd(ctx context.Context, videoRef string) (*domain.Ad, error) {
	id, err := domain.NormalizeVideoRef(videoRef)
	if err != nil {
		return nil, domain.NewValidationError("video", "not a YouTube URL or ID")
	}
	return s.ads.GetByVideoID(ctx, id)
}
