package testhelper

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/adcatalog-backend/internal/domain"
	"github.com/heartmarshall/adcatalog-backend/pkg/slug"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueName returns prefix followed by a unique suffix.
func UniqueName(prefix string) string {
	return prefix + " " + uniqueSuffix()
}

// UniqueVideoID returns a random valid 11-character video ID.
func UniqueVideoID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:11]
}

// SeedBrand inserts a brand with a unique name and its slug.
func SeedBrand(t *testing.T, pool *pgxpool.Pool) domain.Brand {
	t.Helper()

	name := UniqueName("Brand")
	s := slug.Make(name)
	b := domain.Brand{ID: uuid.New(), Name: name, Slug: &s}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO brands (id, name, slug) VALUES ($1, $2, $3) RETURNING created_at`,
		b.ID, b.Name, b.Slug,
	).Scan(&b.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedBrand: %v", err)
	}
	return b
}

// SeedAgency inserts an agency with a unique name and its slug.
func SeedAgency(t *testing.T, pool *pgxpool.Pool) domain.Agency {
	t.Helper()

	name := UniqueName("Agency")
	s := slug.Make(name)
	a := domain.Agency{ID: uuid.New(), Name: name, Slug: &s}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO agencies (id, name, slug) VALUES ($1, $2, $3) RETURNING created_at`,
		a.ID, a.Name, a.Slug,
	).Scan(&a.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedAgency: %v", err)
	}
	return a
}

// SeedAd inserts an ad for the given brand (and optional agency) with a unique video ID.
func SeedAd(t *testing.T, pool *pgxpool.Pool, brandID uuid.UUID, agencyID *uuid.UUID, year *int) domain.Ad {
	t.Helper()

	vid := UniqueVideoID()
	ad := domain.Ad{
		ID:       uuid.New(),
		Title:    UniqueName("Ad"),
		BrandID:  brandID,
		AgencyID: agencyID,
		Year:     year,
		VideoID:  vid,
		VideoURL: domain.CanonicalVideoURL(vid),
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO ads (id, title, brand_id, agency_id, year, youtube_id, youtube_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`,
		ad.ID, ad.Title, ad.BrandID, ad.AgencyID, ad.Year, ad.VideoID, ad.VideoURL,
	).Scan(&ad.CreatedAt, &ad.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedAd: %v", err)
	}
	return ad
}

// SeedTag inserts a tag with a unique name and returns it.
func SeedTag(t *testing.T, pool *pgxpool.Pool) domain.Tag {
	t.Helper()

	name := UniqueName("tag")
	tag := domain.Tag{ID: uuid.New(), Name: name, Slug: slug.Make(name)}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO tags (id, name, slug) VALUES ($1, $2, $3) RETURNING created_at`,
		tag.ID, tag.Name, tag.Slug,
	).Scan(&tag.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedTag: %v", err)
	}
	return tag
}

// LinkTag attaches a tag to an ad.
func LinkTag(t *testing.T, pool *pgxpool.Pool, adID, tagID uuid.UUID) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO ad_tags (ad_id, tag_id) VALUES ($1, $2)`, adID, tagID)
	if err != nil {
		t.Fatalf("testhelper: LinkTag: %v", err)
	}
}

// SeedReview creates a fresh user and a review by them on the given ad.
func SeedReview(t *testing.T, pool *pgxpool.Pool, adID uuid.UUID, rating int) domain.Review {
	t.Helper()
	ctx := context.Background()

	userID := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, username) VALUES ($1, $2)`,
		userID, "user-"+uniqueSuffix(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReview insert user: %v", err)
	}

	r := domain.Review{ID: uuid.New(), AdID: adID, UserID: userID, Rating: rating}
	err = pool.QueryRow(ctx,
		`INSERT INTO reviews (id, ad_id, user_id, rating) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		r.ID, r.AdID, r.UserID, r.Rating,
	).Scan(&r.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedReview insert review: %v", err)
	}
	return r
}
