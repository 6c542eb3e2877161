package domain

import "strings"

// Scope restricts a search request and partitions search-term analytics.
// A brand-restricted scope (e.g. a brand storefront) tracks its own popular
// terms separately from the global marketplace.
type Scope struct {
	BrandID string `json:"brand_id,omitempty"`
	StoreID string `json:"store_id,omitempty"`
	MallID  string `json:"mall_id,omitempty"`
}

// Domain tag constants for scope partitioning.
const (
	domainTagGlobal = "global"
	domainTagBrand  = "brand"
	domainKeyGlobal = "all"
)

// Domain maps the scope to the stable partition key used for term-tracking
// records. Identical scopes always map to the same key, and brand-scoped
// keys never collide with the global one.
func (s Scope) Domain() string {
	if s.BrandID != "" {
		return strings.Join([]string{domainTagBrand, s.BrandID}, ":")
	}
	return strings.Join([]string{domainTagGlobal, domainKeyGlobal}, ":")
}
