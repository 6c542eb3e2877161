package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/plazakit/searchsvc/internal/domain"
	apperrors "github.com/plazakit/searchsvc/pkg/errors"
)

// doSearch executes one search request and decodes the typed response.
func (e *Engine) doSearch(ctx context.Context, index string, body M) (*searchResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(index),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, e.classifyError("search", res)
	}

	dec := json.NewDecoder(res.Body)
	dec.UseNumber()

	var resp searchResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, apperrors.BadGateway("decode search response", err)
	}

	return &resp, nil
}

// SearchProducts compiles the options into a composite query, executes it,
// and projects the response into a typed product page with facets,
// suggestions, and the next-page cursor.
func (e *Engine) SearchProducts(ctx context.Context, opts *domain.ListOptions, facets []string) (*domain.SearchResult[domain.Product], error) {
	body, err := compileProductSearch(opts, facets)
	if err != nil {
		return nil, err
	}

	resp, err := e.doSearch(ctx, e.indices.Products, body)
	if err != nil {
		return nil, err
	}

	items, next, err := projectHits[domain.Product](resp, opts.Size)
	if err != nil {
		return nil, err
	}

	total, estimate := projectTotal(resp, len(items))

	e.logger.DebugContext(ctx, "product search executed",
		slog.String("keyword", opts.Keyword),
		slog.Int64("total", total),
		slog.Int64("took_ms", resp.Took),
	)

	return &domain.SearchResult[domain.Product]{
		Items:           items,
		Total:           total,
		TotalIsEstimate: estimate,
		NextCursor:      next,
		Facets:          projectFacets(resp),
		Suggestions:     projectSuggestions(resp),
	}, nil
}

// SearchBrands lists brand documents by keyword with cursor pagination.
func (e *Engine) SearchBrands(ctx context.Context, opts *domain.ListOptions) (*domain.SearchResult[domain.Brand], error) {
	body, err := compileBrandSearch(opts)
	if err != nil {
		return nil, err
	}

	resp, err := e.doSearch(ctx, e.indices.Brands, body)
	if err != nil {
		return nil, err
	}

	items, next, err := projectHits[domain.Brand](resp, opts.Size)
	if err != nil {
		return nil, err
	}

	total, estimate := projectTotal(resp, len(items))

	return &domain.SearchResult[domain.Brand]{
		Items:           items,
		Total:           total,
		TotalIsEstimate: estimate,
		NextCursor:      next,
	}, nil
}

// GetProduct fetches a single product document by SKU.
func (e *Engine) GetProduct(ctx context.Context, sku string) (*domain.Product, error) {
	res, err := e.client.Get(e.indices.Products, sku, e.client.Get.WithContext(ctx))
	if err != nil {
		return nil, apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 404 {
		return nil, apperrors.NotFound("product", sku)
	}
	if res.IsError() {
		return nil, e.classifyError("get product", res)
	}

	var resp getResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, apperrors.BadGateway("decode get response", err)
	}
	if !resp.Found {
		return nil, apperrors.NotFound("product", sku)
	}

	var product domain.Product
	if err := json.Unmarshal(resp.Source, &product); err != nil {
		return nil, apperrors.BadGateway("malformed product document", err)
	}

	return &product, nil
}

// DeleteProduct removes a product document by SKU. A missing document is
// not an error.
func (e *Engine) DeleteProduct(ctx context.Context, sku string) error {
	res, err := e.client.Delete(e.indices.Products, sku, e.client.Delete.WithContext(ctx))
	if err != nil {
		return apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		return e.classifyError("delete product", res)
	}

	e.logger.DebugContext(ctx, "product deleted from index", slog.String("sku", sku))
	return nil
}
