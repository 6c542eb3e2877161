// Package enginetest provides an in-memory fake of the engine interface
// for service and handler tests. Every call is recorded and every result
// is settable.
package enginetest

import (
	"context"
	"sync"

	"github.com/plazakit/searchsvc/internal/domain"
)

// StockCall records one ApplyStockChanges invocation.
type StockCall struct {
	Transition domain.StockTransition
	Changes    []domain.StockChange
}

// TrackCall records one TrackSearched invocation.
type TrackCall struct {
	Scope domain.Scope
	Term  string
}

// BoostCall records one SetBoostedScore invocation.
type BoostCall struct {
	Scope domain.Scope
	Term  string
	Score float64
}

// ConfigureCall records one ConfigureIndex invocation.
type ConfigureCall struct {
	Target  string
	Destroy bool
}

// Fake implements engine.Engine. Zero value is usable: reads return empty
// results and writes succeed. Set the Err fields to force failures and
// the result fields to control what reads return.
type Fake struct {
	mu sync.Mutex

	ProductResult *domain.SearchResult[domain.Product]
	BrandResult   *domain.SearchResult[domain.Brand]
	Product       *domain.Product
	BoostedTerms  []domain.TermRecord
	PopularTerms  []string
	BoostedNames  []string
	DeletedCount  int64

	SearchErr    error
	GetErr       error
	SaveErr      error
	StockErr     error
	TrackErr     error
	TermQueryErr error
	AdminErr     error
	PingErr      error

	SearchedOpts   []*domain.ListOptions
	SearchedFacets [][]string
	BrandOpts      []*domain.ListOptions
	GotSKUs        []string
	DeletedSKUs    []string
	SavedProducts  [][]domain.Product
	SavedBrands    [][]domain.Brand
	StockCalls     []StockCall
	TrackCalls     []TrackCall
	BoostCalls     []BoostCall
	DeletedTerms   [][]string
	ConfigureCalls []ConfigureCall
	EnsureCalls    int
}

func (f *Fake) SearchProducts(_ context.Context, opts *domain.ListOptions, facets []string) (*domain.SearchResult[domain.Product], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SearchedOpts = append(f.SearchedOpts, opts)
	f.SearchedFacets = append(f.SearchedFacets, facets)
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	if f.ProductResult != nil {
		return f.ProductResult, nil
	}
	return &domain.SearchResult[domain.Product]{Items: []domain.Product{}}, nil
}

func (f *Fake) SearchBrands(_ context.Context, opts *domain.ListOptions) (*domain.SearchResult[domain.Brand], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BrandOpts = append(f.BrandOpts, opts)
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	if f.BrandResult != nil {
		return f.BrandResult, nil
	}
	return &domain.SearchResult[domain.Brand]{Items: []domain.Brand{}}, nil
}

func (f *Fake) GetProduct(_ context.Context, sku string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GotSKUs = append(f.GotSKUs, sku)
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	return f.Product, nil
}

func (f *Fake) DeleteProduct(_ context.Context, sku string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeletedSKUs = append(f.DeletedSKUs, sku)
	return f.SaveErr
}

func (f *Fake) SaveProducts(_ context.Context, products []domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SavedProducts = append(f.SavedProducts, products)
	return f.SaveErr
}

func (f *Fake) SaveBrands(_ context.Context, brands []domain.Brand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SavedBrands = append(f.SavedBrands, brands)
	return f.SaveErr
}

func (f *Fake) ApplyStockChanges(_ context.Context, transition domain.StockTransition, changes []domain.StockChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StockCalls = append(f.StockCalls, StockCall{Transition: transition, Changes: changes})
	return f.StockErr
}

func (f *Fake) TrackSearched(_ context.Context, scope domain.Scope, term string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TrackCalls = append(f.TrackCalls, TrackCall{Scope: scope, Term: term})
	return f.TrackErr
}

func (f *Fake) SetBoostedScore(_ context.Context, scope domain.Scope, term string, score float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BoostCalls = append(f.BoostCalls, BoostCall{Scope: scope, Term: term, Score: score})
	return f.TrackErr
}

func (f *Fake) ListBoosted(_ context.Context, _ domain.Scope) ([]domain.TermRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TermQueryErr != nil {
		return nil, f.TermQueryErr
	}
	return f.BoostedTerms, nil
}

func (f *Fake) QueryPopular(_ context.Context, _ domain.Scope, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TermQueryErr != nil {
		return nil, f.TermQueryErr
	}
	return f.PopularTerms, nil
}

func (f *Fake) QueryBoosted(_ context.Context, _ domain.Scope, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TermQueryErr != nil {
		return nil, f.TermQueryErr
	}
	return f.BoostedNames, nil
}

func (f *Fake) DeletePopularTerms(_ context.Context, _ domain.Scope, terms []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeletedTerms = append(f.DeletedTerms, terms)
	if f.TermQueryErr != nil {
		return 0, f.TermQueryErr
	}
	return f.DeletedCount, nil
}

func (f *Fake) DeleteBoostedTerms(_ context.Context, _ domain.Scope, terms []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeletedTerms = append(f.DeletedTerms, terms)
	if f.TermQueryErr != nil {
		return 0, f.TermQueryErr
	}
	return f.DeletedCount, nil
}

func (f *Fake) EnsureIndexes(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EnsureCalls++
	return f.AdminErr
}

func (f *Fake) ConfigureIndex(_ context.Context, target string, destroy bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ConfigureCalls = append(f.ConfigureCalls, ConfigureCall{Target: target, Destroy: destroy})
	return f.AdminErr
}

func (f *Fake) Ping(_ context.Context) error {
	return f.PingErr
}
