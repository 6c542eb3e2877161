package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plazakit/searchsvc/internal/domain"
)

// Cache partitions for the two term kinds.
const (
	termKindPopular = "popular"
	termKindBoosted = "boosted"
)

// PopularTerms returns the scope's most searched terms matching the
// optional prefix, read through the cache.
func (s *SearchService) PopularTerms(ctx context.Context, scope domain.Scope, prefix string) ([]string, error) {
	if s.terms != nil {
		if cached, ok := s.terms.Get(ctx, termKindPopular, scope, prefix); ok {
			return cached, nil
		}
	}

	terms, err := s.engine.QueryPopular(ctx, scope, prefix)
	if err != nil {
		return nil, fmt.Errorf("popular terms: %w", err)
	}

	if s.terms != nil {
		s.terms.Set(ctx, termKindPopular, scope, prefix, terms)
	}
	return terms, nil
}

// BoostedTerms returns the scope's boosted terms matching the optional
// prefix, read through the cache.
func (s *SearchService) BoostedTerms(ctx context.Context, scope domain.Scope, prefix string) ([]string, error) {
	if s.terms != nil {
		if cached, ok := s.terms.Get(ctx, termKindBoosted, scope, prefix); ok {
			return cached, nil
		}
	}

	terms, err := s.engine.QueryBoosted(ctx, scope, prefix)
	if err != nil {
		return nil, fmt.Errorf("boosted terms: %w", err)
	}

	if s.terms != nil {
		s.terms.Set(ctx, termKindBoosted, scope, prefix, terms)
	}
	return terms, nil
}

// ListBoostedRecords returns the scope's boosted term records with their
// scores, for the operator surface.
func (s *SearchService) ListBoostedRecords(ctx context.Context, scope domain.Scope) ([]domain.TermRecord, error) {
	records, err := s.engine.ListBoosted(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list boosted terms: %w", err)
	}
	return records, nil
}

// SetBoostedScore sets the boosted score of a term within the scope.
func (s *SearchService) SetBoostedScore(ctx context.Context, scope domain.Scope, term string, score float64) error {
	if err := s.engine.SetBoostedScore(ctx, scope, term, score); err != nil {
		return fmt.Errorf("set boosted score: %w", err)
	}

	if s.terms != nil {
		s.terms.Invalidate(ctx, scope)
	}

	s.logger.InfoContext(ctx, "boosted term scored",
		slog.String("domain", scope.Domain()),
		slog.String("term", term),
		slog.Float64("score", score),
	)
	return nil
}

// DeletePopularTerms removes the given popular terms of the scope and
// returns how many records were deleted.
func (s *SearchService) DeletePopularTerms(ctx context.Context, scope domain.Scope, terms []string) (int64, error) {
	deleted, err := s.engine.DeletePopularTerms(ctx, scope, terms)
	if err != nil {
		return 0, fmt.Errorf("delete popular terms: %w", err)
	}

	if s.terms != nil {
		s.terms.Invalidate(ctx, scope)
	}
	return deleted, nil
}

// DeleteBoostedTerms removes the given boosted terms of the scope.
func (s *SearchService) DeleteBoostedTerms(ctx context.Context, scope domain.Scope, terms []string) (int64, error) {
	deleted, err := s.engine.DeleteBoostedTerms(ctx, scope, terms)
	if err != nil {
		return 0, fmt.Errorf("delete boosted terms: %w", err)
	}

	if s.terms != nil {
		s.terms.Invalidate(ctx, scope)
	}
	return deleted, nil
}
