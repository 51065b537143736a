package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// SearchInput holds the parameters of an ad search. Page numbers start at 1;
// zero Page and PageSize mean the defaults.
type SearchInput struct {
	Query      string
	TagSlug    string
	Year       *int
	BrandSlug  string
	AgencySlug string
	Page       int
	PageSize   int
}

// Validate checks all fields and collects all errors.
func (i *SearchInput) Validate() error {
	var errs []domain.FieldError

	if utf8.RuneCountInString(strings.TrimSpace(i.Query)) > 200 {
		errs = append(errs, domain.FieldError{Field: "q", Message: "too long (max 200)"})
	}
	if i.Year != nil && (*i.Year < 0 || *i.Year > 9999) {
		errs = append(errs, domain.FieldError{Field: "year", Message: "out of range"})
	}
	if i.Page < 0 {
		errs = append(errs, domain.FieldError{Field: "page", Message: "must be positive"})
	}
	if i.PageSize < 0 {
		errs = append(errs, domain.FieldError{Field: "page_size", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// DetailInput selects a brand or agency page.
type DetailInput struct {
	Slug     string
	Page     int
	PageSize int
}

// Validate checks all fields and collects all errors.
func (i *DetailInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Slug) == "" {
		errs = append(errs, domain.FieldError{Field: "slug", Message: "required"})
	}
	if i.Page < 0 {
		errs = append(errs, domain.FieldError{Field: "page", Message: "must be positive"})
	}
	if i.PageSize < 0 {
		errs = append(errs, domain.FieldError{Field: "page_size", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreditInput credits a person on an ad. AgencySlug optionally names the
// company the person worked for.
type CreditInput struct {
	VideoRef   string
	Role       domain.CreditRole
	Person     string
	AgencySlug string
}

// Validate checks all fields and collects all errors.
func (i *CreditInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.VideoRef) == "" {
		errs = append(errs, domain.FieldError{Field: "video", Message: "required"})
	}
	if !i.Role.IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "unknown credit role"})
	}
	person := strings.TrimSpace(i.Person)
	if person == "" {
		errs = append(errs, domain.FieldError{Field: "person", Message: "required"})
	} else if utf8.RuneCountInString(person) > 255 {
		errs = append(errs, domain.FieldError{Field: "person", Message: "too long (max 255)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
