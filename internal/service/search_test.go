package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plazakit/searchsvc/internal/domain"
	"github.com/plazakit/searchsvc/internal/engine/enginetest"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeBrandLookup implements repository.BrandLookup in memory.
type fakeBrandLookup struct {
	brands map[string]domain.Brand
	err    error
	calls  [][]string
}

func (f *fakeBrandLookup) GetByIDs(_ context.Context, ids []string) (map[string]domain.Brand, error) {
	f.calls = append(f.calls, ids)
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]domain.Brand)
	for _, id := range ids {
		if b, ok := f.brands[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

func (f *fakeBrandLookup) GetByID(_ context.Context, id string) (*domain.Brand, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.brands[id]; ok {
		return &b, nil
	}
	return nil, errors.New("not found")
}

func newService(eng *enginetest.Fake, brands *fakeBrandLookup) *SearchService {
	if brands == nil {
		return NewSearchService(eng, nil, nil, nil, "", newTestLogger())
	}
	return NewSearchService(eng, brands, nil, nil, "", newTestLogger())
}

func TestListProducts_NormalizesPageSize(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero becomes default", 0, domain.DefaultPageSize},
		{"negative becomes default", -5, domain.DefaultPageSize},
		{"oversized is capped", 500, domain.MaxPageSize},
		{"valid passes through", 42, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &enginetest.Fake{}
			svc := newService(eng, nil)

			_, err := svc.ListProducts(context.Background(), &domain.ListOptions{Size: tt.in}, nil)
			require.NoError(t, err)

			require.Len(t, eng.SearchedOpts, 1)
			assert.Equal(t, tt.want, eng.SearchedOpts[0].Size)
		})
	}
}

func TestListProducts_TracksKeywordSearches(t *testing.T) {
	eng := &enginetest.Fake{}
	svc := newService(eng, nil)
	scope := domain.Scope{BrandID: "b-1"}

	_, err := svc.ListProducts(context.Background(), &domain.ListOptions{Scope: scope, Keyword: "sneaker"}, nil)
	require.NoError(t, err)

	require.Len(t, eng.TrackCalls, 1)
	assert.Equal(t, "sneaker", eng.TrackCalls[0].Term)
	assert.Equal(t, scope, eng.TrackCalls[0].Scope)
}

func TestListProducts_NoKeywordNoTracking(t *testing.T) {
	eng := &enginetest.Fake{}
	svc := newService(eng, nil)

	_, err := svc.ListProducts(context.Background(), &domain.ListOptions{Categories: []string{"shoes"}}, nil)
	require.NoError(t, err)

	assert.Empty(t, eng.TrackCalls)
}

func TestListProducts_TrackFailureIsSwallowed(t *testing.T) {
	eng := &enginetest.Fake{TrackErr: errors.New("conflict budget exhausted")}
	svc := newService(eng, nil)

	result, err := svc.ListProducts(context.Background(), &domain.ListOptions{Keyword: "sneaker"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestListProducts_EnrichesBrandFacetNames(t *testing.T) {
	eng := &enginetest.Fake{
		ProductResult: &domain.SearchResult[domain.Product]{
			Facets: &domain.Facets{
				Brands: []domain.BrandCount{
					{ID: "b-1", Count: 10},
					{ID: "b-2", Count: 4},
				},
			},
		},
	}
	brands := &fakeBrandLookup{brands: map[string]domain.Brand{
		"b-1": {ID: "b-1", NameEN: "Acme"},
	}}
	svc := newService(eng, brands)

	result, err := svc.ListProducts(context.Background(), &domain.ListOptions{}, []string{domain.FacetBrand})
	require.NoError(t, err)

	require.Len(t, result.Facets.Brands, 2)
	assert.Equal(t, "Acme", result.Facets.Brands[0].Name)
	// Unknown ids keep an empty name rather than failing the search.
	assert.Empty(t, result.Facets.Brands[1].Name)
}

func TestListProducts_EnrichmentFailureDegradesToIDs(t *testing.T) {
	eng := &enginetest.Fake{
		ProductResult: &domain.SearchResult[domain.Product]{
			Facets: &domain.Facets{
				Brands: []domain.BrandCount{{ID: "b-1", Count: 10}},
			},
		},
	}
	brands := &fakeBrandLookup{err: errors.New("db down")}
	svc := newService(eng, brands)

	result, err := svc.ListProducts(context.Background(), &domain.ListOptions{}, []string{domain.FacetBrand})
	require.NoError(t, err)

	require.Len(t, result.Facets.Brands, 1)
	assert.Equal(t, "b-1", result.Facets.Brands[0].ID)
	assert.Empty(t, result.Facets.Brands[0].Name)
}

func TestListProducts_PropagatesEngineError(t *testing.T) {
	eng := &enginetest.Fake{SearchErr: errors.New("cluster down")}
	svc := newService(eng, nil)

	_, err := svc.ListProducts(context.Background(), &domain.ListOptions{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list products")
}

func TestListBrands(t *testing.T) {
	eng := &enginetest.Fake{
		BrandResult: &domain.SearchResult[domain.Brand]{
			Items: []domain.Brand{{ID: "b-1", NameEN: "Acme"}},
			Total: 1,
		},
	}
	svc := newService(eng, nil)

	result, err := svc.ListBrands(context.Background(), &domain.ListOptions{Keyword: "ac"})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "Acme", result.Items[0].NameEN)
	require.Len(t, eng.BrandOpts, 1)
	assert.Equal(t, domain.DefaultPageSize, eng.BrandOpts[0].Size)
}

func TestGetAndDeleteBySKU(t *testing.T) {
	eng := &enginetest.Fake{Product: &domain.Product{SKU: "SKU-1", TitleEN: "Widget"}}
	svc := newService(eng, nil)

	product, err := svc.GetBySKU(context.Background(), "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, "Widget", product.TitleEN)

	require.NoError(t, svc.DeleteBySKU(context.Background(), "SKU-1"))
	assert.Equal(t, []string{"SKU-1"}, eng.DeletedSKUs)
}

func TestConfigureIndex_Delegates(t *testing.T) {
	eng := &enginetest.Fake{}
	svc := newService(eng, nil)

	require.NoError(t, svc.ConfigureIndex(context.Background(), "products", true))

	require.Len(t, eng.ConfigureCalls, 1)
	assert.Equal(t, "products", eng.ConfigureCalls[0].Target)
	assert.True(t, eng.ConfigureCalls[0].Destroy)
}
