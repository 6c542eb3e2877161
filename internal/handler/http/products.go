// Package http exposes the search service over HTTP: product and brand
// search, sync and stock endpoints, the term surface, and index admin.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/plazakit/searchsvc/internal/domain"
	"github.com/plazakit/searchsvc/internal/service"
	"github.com/plazakit/searchsvc/pkg/httputil"
	"github.com/plazakit/searchsvc/pkg/validator"
)

// ProductHandler handles product and brand search, sync, and stock routes.
type ProductHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.SearchService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// SyncProductsRequest is the JSON request body for bulk product sync.
type SyncProductsRequest struct {
	Products []domain.Product `json:"products" validate:"required,min=1,max=500"`
}

// SyncBrandsRequest is the JSON request body for bulk brand sync.
type SyncBrandsRequest struct {
	Brands []domain.Brand `json:"brands" validate:"required,min=1,max=500"`
}

// StockRequest is the JSON request body for a stock transition.
type StockRequest struct {
	Changes []domain.StockChange `json:"changes" validate:"required,min=1,max=500"`
}

func writeParamError(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: message},
	})
}

// csvParam splits a comma-separated query parameter into trimmed non-empty
// values.
func csvParam(r *http.Request, name string) []string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseListOptions reads the shared list parameters. Price bounds must be
// valid numbers and min must not exceed max; the engine itself does not
// validate the range, so rejecting inverted bounds here is the only guard.
func parseListOptions(w http.ResponseWriter, r *http.Request) (*domain.ListOptions, bool) {
	q := r.URL.Query()

	opts := &domain.ListOptions{
		Keyword:    strings.TrimSpace(q.Get("q")),
		Cursor:     q.Get("cursor"),
		Categories: csvParam(r, "categories"),
		BrandIDs:   csvParam(r, "brand_ids"),
		SKUs:       csvParam(r, "skus"),
		Colors:     csvParam(r, "colors"),
		CategoryID: q.Get("category_id"),
		Sort:       q.Get("sort"),
		Order:      q.Get("order"),
	}

	// A brand pin also scopes term analytics to that brand's storefront.
	if v := q.Get("brand_id"); v != "" {
		opts.BrandID = v
		opts.Scope.BrandID = v
	}
	opts.Scope.StoreID = q.Get("store_id")
	opts.Scope.MallID = q.Get("mall_id")

	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			writeParamError(w, "size must be a positive integer")
			return nil, false
		}
		opts.Size = size
	}

	if v := q.Get("min_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			writeParamError(w, "min_price must be a non-negative number")
			return nil, false
		}
		opts.PriceMin = &price
	}
	if v := q.Get("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			writeParamError(w, "max_price must be a non-negative number")
			return nil, false
		}
		opts.PriceMax = &price
	}
	if opts.PriceMin != nil && opts.PriceMax != nil && *opts.PriceMin > *opts.PriceMax {
		writeParamError(w, "min_price must not exceed max_price")
		return nil, false
	}

	return opts, true
}

// validFacets is the set of facet slugs callers may request.
var validFacets = map[string]bool{
	domain.FacetBrand:    true,
	domain.FacetCategory: true,
	domain.FacetColor:    true,
	domain.FacetPrice:    true,
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	opts, ok := parseListOptions(w, r)
	if !ok {
		return
	}

	facets := csvParam(r, "facets")
	for _, f := range facets {
		if !validFacets[f] {
			writeParamError(w, "unknown facet: "+f)
			return
		}
	}

	result, err := h.service.ListProducts(r.Context(), opts, facets)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// ListBrands handles GET /api/v1/brands
func (h *ProductHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	opts, ok := parseListOptions(w, r)
	if !ok {
		return
	}

	result, err := h.service.ListBrands(r.Context(), opts)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetProduct handles GET /api/v1/products/{sku}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	product, err := h.service.GetBySKU(r.Context(), sku)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{sku}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	if err := h.service.DeleteBySKU(r.Context(), sku); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"sku": sku, "status": "deleted"},
	})
}

// SyncProducts handles POST /api/v1/products/sync
func (h *ProductHandler) SyncProducts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	var req SyncProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.SaveProducts(r.Context(), req.Products); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"synced": len(req.Products), "status": "ok"},
	})
}

// SyncBrands handles POST /api/v1/brands/sync
func (h *ProductHandler) SyncBrands(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	var req SyncBrandsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.SyncBrands(r.Context(), req.Brands); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"synced": len(req.Brands), "status": "ok"},
	})
}

// ApplyStock handles POST /api/v1/stocks/{transition}
func (h *ProductHandler) ApplyStock(w http.ResponseWriter, r *http.Request) {
	transition := domain.StockTransition(chi.URLParam(r, "transition"))
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	var req StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.ApplyStock(r.Context(), transition, req.Changes); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"applied": len(req.Changes), "transition": string(transition)},
	})
}
