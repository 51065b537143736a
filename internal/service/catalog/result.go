package catalog

import "github.com/heartmarshall/adcatalog-backend/internal/domain"

// SearchResult is one page of ads.
type SearchResult struct {
	Items    []domain.AdSummary `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Pages    int                `json:"pages"`
}

// OrgDetail is a brand or agency with one page of its ads.
type OrgDetail struct {
	Org domain.OrgSummary `json:"org"`
	Ads SearchResult      `json:"ads"`
}

// AdDetail is a single ad with its tag slugs and credits.
type AdDetail struct {
	Ad      domain.Ad         `json:"ad"`
	Tags    []string          `json:"tags"`
	Credits []domain.AdCredit `json:"credits"`
}
