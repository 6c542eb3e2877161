// Package service implements the business logic of the search service on
// top of the engine, the brand lookup store, and the term cache.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plazakit/searchsvc/internal/cache"
	"github.com/plazakit/searchsvc/internal/domain"
	"github.com/plazakit/searchsvc/internal/engine"
	"github.com/plazakit/searchsvc/internal/repository"
	"github.com/plazakit/searchsvc/pkg/httpclient"
)

// SearchService implements the business logic for search, sync, stock, and
// term operations.
type SearchService struct {
	engine     engine.Engine
	brands     repository.BrandLookup
	terms      *cache.TermCache
	catalog    *httpclient.CircuitBreakerClient
	catalogURL string
	logger     *slog.Logger
}

// NewSearchService creates a new search service. brands and terms may be
// nil; the dependent features (facet name enrichment, suggestion caching)
// then degrade silently.
func NewSearchService(
	eng engine.Engine,
	brands repository.BrandLookup,
	terms *cache.TermCache,
	catalog *httpclient.CircuitBreakerClient,
	catalogURL string,
	logger *slog.Logger,
) *SearchService {
	return &SearchService{
		engine:     eng,
		brands:     brands,
		terms:      terms,
		catalog:    catalog,
		catalogURL: catalogURL,
		logger:     logger,
	}
}

// normalizeSize clamps the requested page size into the allowed range.
func normalizeSize(size int) int {
	if size <= 0 {
		return domain.DefaultPageSize
	}
	if size > domain.MaxPageSize {
		return domain.MaxPageSize
	}
	return size
}

// ListProducts executes a faceted product search. The searched keyword is
// tracked for popular-term analytics and brand facet ids are resolved to
// display names; both are best effort and never fail the search.
func (s *SearchService) ListProducts(ctx context.Context, opts *domain.ListOptions, facets []string) (*domain.SearchResult[domain.Product], error) {
	opts.Size = normalizeSize(opts.Size)

	result, err := s.engine.SearchProducts(ctx, opts, facets)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	s.enrichBrandFacet(ctx, result.Facets)

	if opts.Keyword != "" {
		if err := s.engine.TrackSearched(ctx, opts.Scope, opts.Keyword); err != nil {
			s.logger.WarnContext(ctx, "track searched term failed",
				slog.String("term", opts.Keyword),
				slog.String("error", err.Error()),
			)
		}
	}

	return result, nil
}

// ListBrands lists brand documents by keyword.
func (s *SearchService) ListBrands(ctx context.Context, opts *domain.ListOptions) (*domain.SearchResult[domain.Brand], error) {
	opts.Size = normalizeSize(opts.Size)

	result, err := s.engine.SearchBrands(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return result, nil
}

// GetBySKU fetches one product by SKU.
func (s *SearchService) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	product, err := s.engine.GetProduct(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// DeleteBySKU removes one product from the index. A missing product is not
// an error.
func (s *SearchService) DeleteBySKU(ctx context.Context, sku string) error {
	if err := s.engine.DeleteProduct(ctx, sku); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.logger.InfoContext(ctx, "product deleted from index", slog.String("sku", sku))
	return nil
}

// enrichBrandFacet joins display names onto the brand facet buckets. Failed
// lookups degrade to id-only buckets.
func (s *SearchService) enrichBrandFacet(ctx context.Context, facets *domain.Facets) {
	if s.brands == nil || facets == nil || len(facets.Brands) == 0 {
		return
	}

	ids := make([]string, 0, len(facets.Brands))
	for _, b := range facets.Brands {
		ids = append(ids, b.ID)
	}

	named, err := s.brands.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.WarnContext(ctx, "brand facet enrichment failed",
			slog.String("error", err.Error()),
		)
		return
	}

	for i := range facets.Brands {
		if b, ok := named[facets.Brands[i].ID]; ok {
			facets.Brands[i].Name = b.NameEN
		}
	}
}

// EnsureIndexes bootstraps the engine's indices and stored scripts.
func (s *SearchService) EnsureIndexes(ctx context.Context) error {
	if err := s.engine.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}

// ConfigureIndex reapplies settings and mapping to the named index target.
func (s *SearchService) ConfigureIndex(ctx context.Context, target string, destroy bool) error {
	if err := s.engine.ConfigureIndex(ctx, target, destroy); err != nil {
		return fmt.Errorf("configure index: %w", err)
	}
	s.logger.InfoContext(ctx, "index configured",
		slog.String("target", target),
		slog.Bool("destroy", destroy),
	)
	return nil
}
