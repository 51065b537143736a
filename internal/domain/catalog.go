package domain

import (
	"time"

	"github.com/google/uuid"
)

// Brand is an advertiser. Name is unique; Slug is nil when the name yields no slug.
type Brand struct {
	ID        uuid.UUID
	Name      string
	Slug      *string
	Website   string
	CreatedAt time.Time
}

// Agency is a creative agency credited on ads.
type Agency struct {
	ID        uuid.UUID
	Name      string
	Slug      *string
	Website   string
	City      string
	Country   string
	CreatedAt time.Time
}

// Person is an individual credited on an ad.
type Person struct {
	ID        uuid.UUID
	Name      string
	Website   string
	CreatedAt time.Time
}

// Ad is a single commercial identified by its YouTube video ID.
type Ad struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	BrandID     uuid.UUID  `json:"brand_id"`
	AgencyID    *uuid.UUID `json:"agency_id"`
	Year        *int       `json:"year"`
	VideoID     string     `json:"youtube_id"`
	VideoURL    string     `json:"youtube_url"`
	DurationSec *int       `json:"duration_sec"`
	TagsRaw     string     `json:"tags_raw"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Tag is a free-form label keyed by slug.
type Tag struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
}

// Credit links a person to an ad in a given role.
type Credit struct {
	ID        uuid.UUID
	AdID      uuid.UUID
	PersonID  uuid.UUID
	Role      CreditRole
	CompanyID *uuid.UUID
}

// AdCredit is a credit as shown on an ad page.
type AdCredit struct {
	Role        CreditRole `json:"role"`
	RoleLabel   string     `json:"role_label"`
	PersonName  string     `json:"person"`
	CompanyName *string    `json:"company"`
}

// Review is a user's rating of an ad. One per user per ad.
type Review struct {
	ID        uuid.UUID
	AdID      uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Body      string
	CreatedAt time.Time
}

// AdSummary is an ad row as listed in the catalog, with brand/agency names and review aggregates.
type AdSummary struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	VideoID     string    `db:"youtube_id" json:"youtube_id"`
	Year        *int      `db:"year" json:"year"`
	DurationSec *int      `db:"duration_sec" json:"duration_sec"`
	BrandName   string    `db:"brand_name" json:"brand_name"`
	BrandSlug   *string   `db:"brand_slug" json:"brand_slug"`
	AgencyName  *string   `db:"agency_name" json:"agency_name"`
	AgencySlug  *string   `db:"agency_slug" json:"agency_slug"`
	AvgRating   *float64  `db:"avg_rating" json:"avg_rating"`
	ReviewCount int       `db:"review_count" json:"review_count"`
}

// OrgSummary is a brand or agency as listed in the catalog.
type OrgSummary struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      *string   `db:"slug" json:"slug"`
	AdCount   int       `db:"ad_count" json:"ad_count"`
	AvgRating *float64  `db:"avg_rating" json:"avg_rating"`
}

// TagSummary is a tag with the number of ads it labels.
type TagSummary struct {
	Name    string `db:"name" json:"name"`
	Slug    string `db:"slug" json:"slug"`
	AdCount int    `db:"ad_count" json:"ad_count"`
}

// AdFilter selects ads in the catalog. Zero values mean "no constraint".
type AdFilter struct {
	Query      string
	TagSlug    string
	Year       *int
	BrandSlug  string
	AgencySlug string
	Limit      int
	Offset     int
}
