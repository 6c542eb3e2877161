// Package engine defines the search-engine interface the service layer
// depends on. The Elasticsearch implementation lives in the elasticsearch
// subpackage; enginetest provides a fake for tests.
package engine

import (
	"context"

	"github.com/plazakit/searchsvc/internal/domain"
)

// Engine is the document search engine collaborator: list queries with
// facets and cursors, scripted bulk mutations, term tracking, and index
// administration.
type Engine interface {
	// SearchProducts compiles the options into a composite query and
	// projects the response into a typed product page. The facets slice
	// selects which facet aggregations to request.
	SearchProducts(ctx context.Context, opts *domain.ListOptions, facets []string) (*domain.SearchResult[domain.Product], error)

	// SearchBrands lists brand documents by keyword with cursor pagination.
	SearchBrands(ctx context.Context, opts *domain.ListOptions) (*domain.SearchResult[domain.Brand], error)

	// GetProduct fetches a single product document by SKU.
	GetProduct(ctx context.Context, sku string) (*domain.Product, error)

	// DeleteProduct removes a product document by SKU. Missing documents
	// are not an error.
	DeleteProduct(ctx context.Context, sku string) error

	// SaveProducts applies idempotent scripted upserts for the given
	// products in one bulk request.
	SaveProducts(ctx context.Context, products []domain.Product) error

	// SaveBrands applies idempotent scripted upserts for the given brands.
	SaveBrands(ctx context.Context, brands []domain.Brand) error

	// ApplyStockChanges runs the named stock transition script over the
	// given stock lines in one bulk request.
	ApplyStockChanges(ctx context.Context, transition domain.StockTransition, changes []domain.StockChange) error

	// TrackSearched increments the hit counter of (scope domain, term).
	// Concurrent writers are tolerated via bounded conflict retry.
	TrackSearched(ctx context.Context, scope domain.Scope, term string) error

	// SetBoostedScore sets the boosted score of (scope domain, term),
	// last write wins.
	SetBoostedScore(ctx context.Context, scope domain.Scope, term string, score float64) error

	// ListBoosted returns the boosted terms of the scope, highest score
	// first.
	ListBoosted(ctx context.Context, scope domain.Scope) ([]domain.TermRecord, error)

	// QueryPopular returns popular terms of the scope matching the
	// optional prefix, most searched first.
	QueryPopular(ctx context.Context, scope domain.Scope, prefix string) ([]string, error)

	// QueryBoosted returns boosted terms of the scope matching the
	// optional prefix, highest score first.
	QueryBoosted(ctx context.Context, scope domain.Scope, prefix string) ([]string, error)

	// DeletePopularTerms removes the given popular terms of the scope and
	// returns how many records were deleted. Empty term sets are a no-op.
	DeletePopularTerms(ctx context.Context, scope domain.Scope, terms []string) (int64, error)

	// DeleteBoostedTerms removes the given boosted terms of the scope.
	DeleteBoostedTerms(ctx context.Context, scope domain.Scope, terms []string) (int64, error)

	// EnsureIndexes creates any missing indices with their mappings.
	EnsureIndexes(ctx context.Context) error

	// ConfigureIndex reapplies settings and mapping to the named index
	// target. With destroy set, the index is deleted and recreated.
	ConfigureIndex(ctx context.Context, target string, destroy bool) error

	// Ping checks engine reachability.
	Ping(ctx context.Context) error
}
