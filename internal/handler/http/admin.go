package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plazakit/searchsvc/internal/service"
	"github.com/plazakit/searchsvc/pkg/httputil"
	"github.com/plazakit/searchsvc/pkg/logger"
)

// AdminHandler handles the index administration routes.
type AdminHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(svc *service.SearchService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{service: svc, logger: logger}
}

// ConfigureIndex handles POST /api/v1/admin/indices/{target}
func (h *AdminHandler) ConfigureIndex(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "target")
	destroy := r.URL.Query().Get("destroy") == "true"

	if err := h.service.ConfigureIndex(r.Context(), target, destroy); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"target": target, "destroy": destroy, "status": "configured"},
	})
}

// Reindex handles POST /api/v1/admin/reindex. The reindex pages through the
// whole catalog, so it runs in the background and the request returns 202.
func (h *AdminHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	correlationID := logger.CorrelationIDFromContext(r.Context())

	go func() {
		ctx := logger.NewContext(context.Background(), h.logger)
		if err := h.service.Reindex(ctx); err != nil {
			h.logger.Error("background reindex failed",
				slog.String("correlation_id", correlationID),
				slog.String("error", err.Error()),
			)
		}
	}()

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{
		Data: map[string]string{"status": "reindex started"},
	})
}
