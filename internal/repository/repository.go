// Package repository defines the data-access interfaces the service layer
// depends on. Implementations live in driver-specific subpackages.
package repository

import (
	"context"

	"github.com/plazakit/searchsvc/internal/domain"
)

// BrandLookup resolves brand master data from the relational store. The
// search index carries only the brand id in facet buckets; display names
// are joined in from here after the search.
type BrandLookup interface {
	// GetByIDs returns the brands matching the given ids, keyed by id.
	// Unknown ids are simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Brand, error)

	// GetByID returns one brand by id.
	GetByID(ctx context.Context, id string) (*domain.Brand, error)
}
