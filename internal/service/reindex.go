package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/plazakit/searchsvc/internal/domain"
	apperrors "github.com/plazakit/searchsvc/pkg/errors"
)

// reindexPageSize is how many products each catalog export page carries.
const reindexPageSize = 200

// catalogPage is the paginated payload of the catalog service's product
// export endpoint.
type catalogPage struct {
	Data       []domain.Product `json:"data"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

// Reindex pages through the catalog service's product export and
// bulk-upserts every page into the index. The circuit breaker guards the
// catalog service; an open breaker aborts the reindex.
func (s *SearchService) Reindex(ctx context.Context) error {
	if s.catalog == nil || s.catalogURL == "" {
		return apperrors.InvalidInput("reindex: no catalog service configured")
	}

	total := 0
	for page := 1; ; page++ {
		p, err := s.fetchCatalogPage(ctx, page)
		if err != nil {
			return fmt.Errorf("reindex: %w", err)
		}

		if err := s.SaveProducts(ctx, p.Data); err != nil {
			return fmt.Errorf("reindex page %d: %w", page, err)
		}
		total += len(p.Data)

		if page >= p.TotalPages {
			break
		}
	}

	s.logger.InfoContext(ctx, "reindex completed", slog.Int("count", total))
	return nil
}

func (s *SearchService) fetchCatalogPage(ctx context.Context, page int) (*catalogPage, error) {
	u := fmt.Sprintf("%s/api/v1/products/export?page=%d&per_page=%d",
		s.catalogURL, page, reindexPageSize)
	if _, err := url.Parse(u); err != nil {
		return nil, fmt.Errorf("catalog url: %w", err)
	}

	resp, err := s.catalog.Get(ctx, u)
	if err != nil {
		return nil, apperrors.BadGateway("catalog service unavailable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, apperrors.BadGateway(
			fmt.Sprintf("catalog service returned status %d", resp.StatusCode), nil)
	}

	var p catalogPage
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, apperrors.BadGateway("decode catalog export page", err)
	}

	return &p, nil
}
