// Package elasticsearch implements the search engine interface on
// Elasticsearch: query compilation, result projection, scripted bulk
// mutations, term tracking, and index administration.
package elasticsearch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "github.com/plazakit/searchsvc/pkg/errors"
)

// M is shorthand for the raw JSON objects the query DSL is assembled from.
type M = map[string]any

// Indices names the indices this engine maintains.
type Indices struct {
	Products     string
	Brands       string
	Stocks       string
	PopularTerms string
	BoostedTerms string
}

// DefaultIndices returns the index names under the given prefix.
func DefaultIndices(prefix string) Indices {
	return Indices{
		Products:     prefix + "_products",
		Brands:       prefix + "_brands",
		Stocks:       prefix + "_stocks",
		PopularTerms: prefix + "_popular_terms",
		BoostedTerms: prefix + "_boosted_terms",
	}
}

// Engine is the Elasticsearch-backed implementation of engine.Engine.
// It holds the single long-lived client; the hosting application constructs
// it once and injects it wherever needed.
type Engine struct {
	client  *elasticsearch.Client
	indices Indices
	logger  *slog.Logger
}

// New creates the engine from the given cluster URL. It does not touch the
// cluster; call EnsureIndexes during startup to create missing indices.
func New(esURL string, indices Indices, logger *slog.Logger) (*Engine, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esURL},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}

	return &Engine{
		client:  client,
		indices: indices,
		logger:  logger,
	}, nil
}

// Ping checks whether the Elasticsearch cluster is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return apperrors.BadGateway(fmt.Sprintf("search engine ping: unexpected status %s", res.Status()), nil)
	}
	return nil
}
