// Package ad implements the Ad repository using PostgreSQL.
// Ads are upserted by their unique YouTube video ID and linked to tags
// through the ad_tags join table.
package ad

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// Repo provides ad persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new ad repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL
// ---------------------------------------------------------------------------

// prev is read with the statement snapshot and locks an existing row, so
// "inserted" is true only when no row with this video ID was visible before.
const upsertSQL = `
WITH prev AS (
    SELECT id FROM ads WHERE youtube_id = $5 FOR UPDATE
)
INSERT INTO ads (title, brand_id, agency_id, year, youtube_id, youtube_url, duration_sec, tags_raw)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (youtube_id) DO UPDATE SET
    title        = EXCLUDED.title,
    brand_id     = EXCLUDED.brand_id,
    agency_id    = EXCLUDED.agency_id,
    year         = EXCLUDED.year,
    youtube_url  = EXCLUDED.youtube_url,
    duration_sec = EXCLUDED.duration_sec,
    tags_raw     = EXCLUDED.tags_raw,
    updated_at   = now()
RETURNING id, NOT EXISTS (SELECT 1 FROM prev) AS inserted`

const getByVideoIDSQL = `
SELECT id, title, brand_id, agency_id, year, youtube_id, youtube_url, duration_sec, tags_raw, created_at, updated_at
FROM ads
WHERE youtube_id = $1`

const clearTagsSQL = `DELETE FROM ad_tags WHERE ad_id = $1`

const addTagSQL = `
INSERT INTO ad_tags (ad_id, tag_id) VALUES ($1, $2)
ON CONFLICT (ad_id, tag_id) DO NOTHING`

const tagSlugsSQL = `
SELECT t.slug
FROM ad_tags adt
JOIN tags t ON t.id = adt.tag_id
WHERE adt.ad_id = $1
ORDER BY t.slug`

const countSQL = `SELECT count(*) FROM ads`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert creates the ad or overwrites every mutable field of the existing ad
// with the same video ID. Returns the ad ID and whether a row was inserted.
func (r *Repo) Upsert(ctx context.Context, a *domain.Ad) (uuid.UUID, bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		id       uuid.UUID
		inserted bool
	)
	err := q.QueryRow(ctx, upsertSQL,
		a.Title, a.BrandID, a.AgencyID, a.Year, a.VideoID, a.VideoURL, a.DurationSec, a.TagsRaw,
	).Scan(&id, &inserted)
	if err != nil {
		return uuid.Nil, false, postgres.MapError(err, "ad", a.VideoID)
	}

	return id, inserted, nil
}

// ReplaceTags removes every tag link of the ad and links tagIDs instead.
// Must run inside a transaction for the swap to be atomic.
func (r *Repo) ReplaceTags(ctx context.Context, adID uuid.UUID, tagIDs []uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, clearTagsSQL, adID); err != nil {
		return postgres.MapError(err, "ad tags", adID)
	}

	_, err := r.AddTags(ctx, adID, tagIDs)
	return err
}

// AddTags links tagIDs to the ad, ignoring links that already exist.
// Returns the number of new links.
func (r *Repo) AddTags(ctx context.Context, adID uuid.UUID, tagIDs []uuid.UUID) (int, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, tagID := range tagIDs {
		batch.Queue(addTagSQL, adID, tagID)
	}

	return r.sendBatchExec(ctx, batch, adID)
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByVideoID returns an ad by its video ID. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByVideoID(ctx context.Context, videoID string) (*domain.Ad, error) {
	var a domain.Ad
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getByVideoIDSQL, videoID).Scan(
		&a.ID, &a.Title, &a.BrandID, &a.AgencyID, &a.Year, &a.VideoID, &a.VideoURL,
		&a.DurationSec, &a.TagsRaw, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "ad", videoID)
	}
	return &a, nil
}

// TagSlugs returns the slugs of the ad's tags in alphabetical order.
// Returns an empty slice (not nil) when the ad has no tags.
func (r *Repo) TagSlugs(ctx context.Context, adID uuid.UUID) ([]string, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, tagSlugsSQL, adID)
	if err != nil {
		return nil, fmt.Errorf("tag slugs for ad %s: %w", adID, err)
	}

	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("tag slugs for ad %s: %w", adID, err)
	}
	if slugs == nil {
		slugs = []string{}
	}
	return slugs, nil
}

// Count returns the total number of ads.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var count int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count ads: %w", err)
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch, adID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, postgres.MapError(err, "ad tags", adID)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}
