package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plazakit/searchsvc/internal/service"
	"github.com/plazakit/searchsvc/pkg/health"
	"github.com/plazakit/searchsvc/pkg/middleware"
)

// ContentTypeJSON rejects mutation requests without a JSON content type.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct != "" && ct != "application/json" && ct != "application/json; charset=utf-8" {
			http.Error(w, `{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`,
				http.StatusUnsupportedMediaType)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewRouter creates a chi router with all search service routes registered.
func NewRouter(
	svc *service.SearchService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("search"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	productHandler := NewProductHandler(svc, logger)
	termHandler := NewTermHandler(svc, logger)
	adminHandler := NewAdminHandler(svc, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{sku}", productHandler.GetProduct)
		r.Get("/brands", productHandler.ListBrands)

		r.Get("/terms/popular", termHandler.Popular)
		r.Get("/terms/boosted", termHandler.Boosted)
		r.Get("/terms/boosted/records", termHandler.BoostedRecords)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/products/sync", productHandler.SyncProducts)
			r.Delete("/products/{sku}", productHandler.DeleteProduct)
			r.Post("/brands/sync", productHandler.SyncBrands)
			r.Post("/stocks/{transition}", productHandler.ApplyStock)

			r.Put("/terms/boosted", termHandler.Boost)
			r.Delete("/terms/popular", termHandler.DeletePopular)
			r.Delete("/terms/boosted", termHandler.DeleteBoosted)

			r.Post("/admin/indices/{target}", adminHandler.ConfigureIndex)
			r.Post("/admin/reindex", adminHandler.Reindex)
		})
	})

	return r
}
