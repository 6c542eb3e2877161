package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plazakit/searchsvc/internal/domain"
	apperrors "github.com/plazakit/searchsvc/pkg/errors"
)

// SaveProducts bulk-upserts products into the index. Records without a SKU
// are skipped since the SKU is the document identity.
func (s *SearchService) SaveProducts(ctx context.Context, products []domain.Product) error {
	now := time.Now().UTC()

	valid := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.SKU == "" {
			s.logger.WarnContext(ctx, "skipping product without sku", slog.String("id", p.ID))
			continue
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		valid = append(valid, p)
	}

	if len(valid) == 0 {
		return nil
	}

	if err := s.engine.SaveProducts(ctx, valid); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	return nil
}

// SyncBrands bulk-upserts brand documents into the index.
func (s *SearchService) SyncBrands(ctx context.Context, brands []domain.Brand) error {
	now := time.Now().UTC()

	valid := make([]domain.Brand, 0, len(brands))
	for _, b := range brands {
		if b.ID == "" {
			s.logger.WarnContext(ctx, "skipping brand without id", slog.String("slug", b.Slug))
			continue
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = now
		}
		valid = append(valid, b)
	}

	if len(valid) == 0 {
		return nil
	}

	if err := s.engine.SaveBrands(ctx, valid); err != nil {
		return fmt.Errorf("sync brands: %w", err)
	}
	return nil
}

// validTransitions is the set of stock lifecycle transitions this service
// accepts from the HTTP surface and the event consumer.
var validTransitions = map[domain.StockTransition]bool{
	domain.StockUpdate:  true,
	domain.StockReserve: true,
	domain.StockCancel:  true,
	domain.StockPay:     true,
	domain.StockExpire:  true,
}

// ApplyStock runs one stock lifecycle transition over the given lines.
func (s *SearchService) ApplyStock(ctx context.Context, transition domain.StockTransition, changes []domain.StockChange) error {
	if !validTransitions[transition] {
		return apperrors.InvalidInput(fmt.Sprintf("unknown stock transition: %s", transition))
	}

	valid := make([]domain.StockChange, 0, len(changes))
	for _, c := range changes {
		if c.LineID == "" {
			s.logger.WarnContext(ctx, "skipping stock change without line id", slog.String("sku", c.SKU))
			continue
		}
		valid = append(valid, c)
	}

	if len(valid) == 0 {
		return nil
	}

	if err := s.engine.ApplyStockChanges(ctx, transition, valid); err != nil {
		return fmt.Errorf("apply stock %s: %w", transition, err)
	}
	return nil
}
