package domain

// BrandCount is one brand facet bucket. Name is enriched from the brand
// store after the search and may be empty if enrichment fails.
type BrandCount struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Count int64  `json:"count"`
}

// CategoryCount is one category facet bucket.
type CategoryCount struct {
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}

// ColorLabel holds the bilingual display label of a color swatch.
type ColorLabel struct {
	EN string `json:"en"`
	TH string `json:"th"`
}

// ColorSwatch is one color facet bucket, decoded from the composite bucket
// key "code__labelEn__labelTh".
type ColorSwatch struct {
	Code  string     `json:"code"`
	Label ColorLabel `json:"label"`
	Count int64      `json:"count"`
}

// PriceBounds is the observed price range across the result set.
type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Facets carries the aggregated facet data of a product search. A facet is
// nil/empty when it was not requested or was suppressed by a pin.
type Facets struct {
	Brands     []BrandCount    `json:"brands,omitempty"`
	Categories []CategoryCount `json:"categories,omitempty"`
	Colors     []ColorSwatch   `json:"colors,omitempty"`
	Price      *PriceBounds    `json:"price,omitempty"`
}

// SearchResult is a typed page of search hits.
//
// NextCursor is set only when the page came back full; a short page means
// end-of-results. TotalIsEstimate is true unless the engine reported an
// exact total relation.
type SearchResult[T any] struct {
	Items           []T      `json:"items"`
	Total           int64    `json:"total"`
	TotalIsEstimate bool     `json:"total_is_estimate"`
	NextCursor      string   `json:"next_cursor,omitempty"`
	Facets          *Facets  `json:"facets,omitempty"`
	Suggestions     []string `json:"suggestions,omitempty"`
}
