package domain

// Facet slugs callers may request on a product search. A facet is only
// aggregated when requested, and brand/category facets are additionally
// suppressed when that dimension is pinned to a single value.
const (
	FacetBrand    = "brand"
	FacetCategory = "category"
	FacetColor    = "color"
	FacetPrice    = "price"
)

// Sort order directions.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Caller-facing sort field tokens. Tokens are mapped to index fields by the
// engine; anything unrecognized is a client error.
const (
	SortCreatedAt       = "createdAt"
	SortPrice           = "price"
	SortDiscountPercent = "discountPercent"
	SortID              = "id"
)

// Pagination defaults and bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListOptions holds every optional dimension of a product or brand list
// request. All filters are optional; Size must be positive. An inverted
// price range (min > max) is not rejected here: the engine silently returns
// an empty result for it, and the HTTP boundary validates it instead.
type ListOptions struct {
	Scope   Scope
	Keyword string

	// Cursor is an opaque token from a previous page's NextCursor. It is
	// only valid for the same sort directive it was issued under.
	Cursor string
	Size   int

	// Multi-value inclusion filters (OR within each dimension).
	Categories []string
	BrandIDs   []string
	SKUs       []string
	Colors     []string

	// Single-value pins. A pin adds an exact filter and suppresses the
	// corresponding facet aggregation.
	CategoryID string
	BrandID    string

	// Inclusive price bounds; a nil bound leaves that side open.
	PriceMin *float64
	PriceMax *float64

	// Sort is the caller's sort field token; empty means relevance order.
	// Order defaults to descending when empty.
	Sort  string
	Order string
}
