package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/plazakit/searchsvc/internal/domain"
	"github.com/plazakit/searchsvc/internal/service"
	"github.com/plazakit/searchsvc/pkg/httputil"
	"github.com/plazakit/searchsvc/pkg/validator"
)

// TermHandler handles the popular and boosted term routes.
type TermHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewTermHandler creates a new term HTTP handler.
func NewTermHandler(svc *service.SearchService, logger *slog.Logger) *TermHandler {
	return &TermHandler{service: svc, logger: logger}
}

// BoostTermRequest is the JSON request body for setting a boosted score.
type BoostTermRequest struct {
	Term  string  `json:"term" validate:"required,min=1"`
	Score float64 `json:"score" validate:"gte=0"`
}

// DeleteTermsRequest is the JSON request body for term deletion.
type DeleteTermsRequest struct {
	Terms []string `json:"terms" validate:"required,min=1,max=100"`
}

// termScope reads the optional brand scope from the query string.
func termScope(r *http.Request) domain.Scope {
	return domain.Scope{BrandID: r.URL.Query().Get("brand_id")}
}

// Popular handles GET /api/v1/terms/popular
func (h *TermHandler) Popular(w http.ResponseWriter, r *http.Request) {
	terms, err := h.service.PopularTerms(r.Context(), termScope(r), r.URL.Query().Get("prefix"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"terms": terms}})
}

// Boosted handles GET /api/v1/terms/boosted
func (h *TermHandler) Boosted(w http.ResponseWriter, r *http.Request) {
	terms, err := h.service.BoostedTerms(r.Context(), termScope(r), r.URL.Query().Get("prefix"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"terms": terms}})
}

// BoostedRecords handles GET /api/v1/terms/boosted/records
func (h *TermHandler) BoostedRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListBoostedRecords(r.Context(), termScope(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"records": records}})
}

// Boost handles PUT /api/v1/terms/boosted
func (h *TermHandler) Boost(w http.ResponseWriter, r *http.Request) {
	var req BoostTermRequest
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

	if err := h.service.SetBoostedScore(r.Context(), termScope(r), req.Term, req.Score); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"term": req.Term, "score": req.Score},
	})
}

// DeletePopular handles DELETE /api/v1/terms/popular
func (h *TermHandler) DeletePopular(w http.ResponseWriter, r *http.Request) {
	h.deleteTerms(w, r, h.service.DeletePopularTerms)
}

// DeleteBoosted handles DELETE /api/v1/terms/boosted
func (h *TermHandler) DeleteBoosted(w http.ResponseWriter, r *http.Request) {
	h.deleteTerms(w, r, h.service.DeleteBoostedTerms)
}

func (h *TermHandler) deleteTerms(
	w http.ResponseWriter,
	r *http.Request,
	del func(ctx context.Context, scope domain.Scope, terms []string) (int64, error),
) {
	var req DeleteTermsRequest
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

	deleted, err := del(r.Context(), termScope(r), req.Terms)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"deleted": deleted},
	})
}
