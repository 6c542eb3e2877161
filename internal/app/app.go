// Package app wires together all dependencies and runs the search service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/plazakit/searchsvc/internal/cache"
	"github.com/plazakit/searchsvc/internal/config"
	esengine "github.com/plazakit/searchsvc/internal/engine/elasticsearch"
	"github.com/plazakit/searchsvc/internal/event"
	handler "github.com/plazakit/searchsvc/internal/handler/http"
	"github.com/plazakit/searchsvc/internal/repository"
	"github.com/plazakit/searchsvc/internal/repository/postgres"
	"github.com/plazakit/searchsvc/internal/service"
	"github.com/plazakit/searchsvc/pkg/database"
	"github.com/plazakit/searchsvc/pkg/health"
	"github.com/plazakit/searchsvc/pkg/httpclient"
	pkgkafka "github.com/plazakit/searchsvc/pkg/kafka"
	"github.com/plazakit/searchsvc/pkg/tracing"
)

// App wires together all dependencies and runs the search service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	engine          *esengine.Engine
	consumers       []*pkgkafka.Consumer
	httpServer      *http.Server
	closeFns        []func() error
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, logger: logger}

	// Tracing.
	tracingCfg := tracing.DefaultConfig("search-service")
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.TracingEndpoint
	tracingCfg.Enabled = cfg.TracingEnabled
	shutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	app.tracingShutdown = shutdown

	// Search engine.
	eng, err := esengine.New(cfg.ElasticsearchURL, esengine.DefaultIndices(cfg.IndexPrefix), logger)
	if err != nil {
		return nil, fmt.Errorf("init elasticsearch engine: %w", err)
	}
	app.engine = eng
	logger.Info("elasticsearch engine initialized",
		slog.String("url", cfg.ElasticsearchURL),
		slog.String("index_prefix", cfg.IndexPrefix),
	)

	// Brand master data lookup. The pool is optional: without it brand
	// facets degrade to bare IDs instead of failing searches.
	var brands repository.BrandLookup
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		logger.Warn("postgres unavailable, brand facet enrichment disabled",
			slog.String("error", err.Error()),
		)
	} else {
		brands = postgres.NewBrandRepository(pool)
		app.closeFns = append(app.closeFns, func() error {
			pool.Close()
			return nil
		})
	}

	// Term suggestion cache. Also optional: suggestion reads fall through
	// to the engine when Redis is down.
	var termCache *cache.TermCache
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		logger.Warn("redis unavailable, term caching disabled",
			slog.String("error", err.Error()),
		)
	} else {
		termCache = cache.NewTermCache(redisClient, cfg.TermCacheTTL, logger)
		app.closeFns = append(app.closeFns, redisClient.Close)
	}

	// Circuit-breaker HTTP client for the catalog export used by reindex.
	catalogClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("catalog-service"),
		logger,
	)

	searchService := service.NewSearchService(
		eng, brands, termCache, catalogClient, cfg.CatalogServiceURL, logger,
	)

	// Kafka consumers, one per subscribed topic.
	eventConsumer := event.NewConsumer(searchService, logger)
	topics := event.Topics()
	for _, topic := range topics {
		consumerCfg := pkgkafka.ConsumerConfig{
			Brokers:  cfg.KafkaBrokers,
			GroupID:  cfg.KafkaGroupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6, // 10 MB
		}
		app.consumers = append(app.consumers, pkgkafka.NewConsumer(consumerCfg, eventConsumer.Handle, logger))
	}
	logger.Info("kafka consumers initialized",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.Int("topic_count", len(topics)),
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("elasticsearch", eng.Ping)
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
	})

	router := handler.NewRouter(searchService, healthHandler, logger)

	app.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return app, nil
}

// Run ensures the indexes exist, then starts the HTTP server and Kafka
// consumers, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	if err := a.engine.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	errCh := make(chan error, 1+len(a.consumers))

	for _, c := range a.consumers {
		c := c
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	for _, closeFn := range a.closeFns {
		if err := closeFn(); err != nil {
			a.logger.Error("close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
