// Package catalog implements the read side of the ad catalog: filtered ad
// listings and brand, agency and tag directories with review aggregates.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// Repo runs catalog queries. It reads through the context transaction when present.
type Repo struct {
	q postgres.Querier
}

// New creates a new catalog repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Review aggregates per ad, joined laterally so they are not multiplied by tag joins.
const reviewStatsJoin = "LATERAL (SELECT avg(r.rating)::float8 AS avg_rating, count(r.id) AS review_count " +
	"FROM reviews r WHERE r.ad_id = a.id) rs ON true"

const hasTagCond = "EXISTS (SELECT 1 FROM ad_tags adt JOIN tags t ON t.id = adt.tag_id " +
	"WHERE adt.ad_id = a.id AND t.slug = ?)"

func adsFrom(f domain.AdFilter) squirrel.SelectBuilder {
	q := builder.Select().
		From("ads a").
		Join("brands b ON b.id = a.brand_id").
		LeftJoin("agencies g ON g.id = a.agency_id")

	if text := strings.TrimSpace(f.Query); text != "" {
		pattern := "%" + escapeLike(text) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"a.title": pattern},
			squirrel.ILike{"b.name": pattern},
			squirrel.ILike{"g.name": pattern},
		})
	}
	if f.TagSlug != "" {
		q = q.Where(hasTagCond, f.TagSlug)
	}
	if f.Year != nil {
		q = q.Where(squirrel.Eq{"a.year": *f.Year})
	}
	if f.BrandSlug != "" {
		q = q.Where(squirrel.Eq{"b.slug": f.BrandSlug})
	}
	if f.AgencySlug != "" {
		q = q.Where(squirrel.Eq{"g.slug": f.AgencySlug})
	}
	return q
}

// CountAds returns how many ads match f. Limit and Offset are ignored.
func (r *Repo) CountAds(ctx context.Context, f domain.AdFilter) (int, error) {
	sql, args, err := adsFrom(f).Column("count(*)").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count ads: %w", err)
	}

	var n int
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.q), &n, sql, args...); err != nil {
		return 0, postgres.MapError(err, "ads", "count")
	}
	return n, nil
}

// ListAds returns the ads matching f, newest year first (undated last), then by title.
func (r *Repo) ListAds(ctx context.Context, f domain.AdFilter) ([]domain.AdSummary, error) {
	sql, args, err := listAdsQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list ads: %w", err)
	}

	items := []domain.AdSummary{}
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.q), &items, sql, args...); err != nil {
		return nil, postgres.MapError(err, "ads", "list")
	}
	return items, nil
}

func listAdsQuery(f domain.AdFilter) squirrel.SelectBuilder {
	q := adsFrom(f).
		Columns(
			"a.id", "a.title", "a.youtube_id", "a.year", "a.duration_sec",
			"b.name AS brand_name", "b.slug AS brand_slug",
			"g.name AS agency_name", "g.slug AS agency_slug",
			"rs.avg_rating", "rs.review_count",
		).
		LeftJoin(reviewStatsJoin).
		OrderBy("a.year DESC NULLS LAST", "a.title ASC", "a.id ASC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return q
}

// orgsFrom selects brands or agencies with their distinct ad count and the
// average rating over all reviews of their ads.
func orgsFrom(table, fk string) squirrel.SelectBuilder {
	return builder.
		Select(
			"o.id", "o.name", "o.slug",
			"count(DISTINCT a.id) AS ad_count",
			"avg(r.rating)::float8 AS avg_rating",
		).
		From(table + " o").
		LeftJoin("ads a ON a." + fk + " = o.id").
		LeftJoin("reviews r ON r.ad_id = a.id").
		GroupBy("o.id")
}

// ListBrands returns every brand ordered by name.
func (r *Repo) ListBrands(ctx context.Context) ([]domain.OrgSummary, error) {
	return r.listOrgs(ctx, "brands", "brand_id")
}

// ListAgencies returns every agency ordered by name.
func (r *Repo) ListAgencies(ctx context.Context) ([]domain.OrgSummary, error) {
	return r.listOrgs(ctx, "agencies", "agency_id")
}

// GetBrand returns the brand with slug and its aggregates.
func (r *Repo) GetBrand(ctx context.Context, slug string) (*domain.OrgSummary, error) {
	return r.getOrg(ctx, "brands", "brand_id", slug)
}

// GetAgency returns the agency with slug and its aggregates.
func (r *Repo) GetAgency(ctx context.Context, slug string) (*domain.OrgSummary, error) {
	return r.getOrg(ctx, "agencies", "agency_id", slug)
}

func (r *Repo) listOrgs(ctx context.Context, table, fk string) ([]domain.OrgSummary, error) {
	sql, args, err := orgsFrom(table, fk).OrderBy("o.name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", table, err)
	}

	out := []domain.OrgSummary{}
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.q), &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, table, "list")
	}
	return out, nil
}

func (r *Repo) getOrg(ctx context.Context, table, fk, slug string) (*domain.OrgSummary, error) {
	sql, args, err := orgsFrom(table, fk).Where(squirrel.Eq{"o.slug": slug}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get %s: %w", table, err)
	}

	var org domain.OrgSummary
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.q), &org, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("%s %s: %w", table, slug, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, table, slug)
	}
	return &org, nil
}

// ListTags returns every tag ordered by name, with the number of ads it labels.
func (r *Repo) ListTags(ctx context.Context) ([]domain.TagSummary, error) {
	sql, args, err := builder.
		Select("t.name", "t.slug", "count(adt.ad_id) AS ad_count").
		From("tags t").
		LeftJoin("ad_tags adt ON adt.tag_id = t.id").
		GroupBy("t.id").
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tags: %w", err)
	}

	out := []domain.TagSummary{}
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.q), &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "tags", "list")
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
