package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/plazakit/searchsvc/internal/domain"
	"github.com/plazakit/searchsvc/pkg/database"
	apperrors "github.com/plazakit/searchsvc/pkg/errors"
)

// BrandRepository implements repository.BrandLookup using PostgreSQL.
type BrandRepository struct {
	pool database.DBTX
}

// NewBrandRepository creates a new PostgreSQL-backed brand repository.
func NewBrandRepository(pool database.DBTX) *BrandRepository {
	return &BrandRepository{pool: pool}
}

const brandColumns = `id, slug, name_en, name_th, logo_url, updated_at`

// GetByIDs returns the brands matching the given ids, keyed by id. Unknown
// ids are absent from the result rather than an error.
func (r *BrandRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Brand, error) {
	if len(ids) == 0 {
		return map[string]domain.Brand{}, nil
	}

	query := `
		SELECT ` + brandColumns + `
		FROM brands
		WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	defer rows.Close()

	brands := make(map[string]domain.Brand, len(ids))
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Slug, &b.NameEN, &b.NameTH, &b.LogoURL, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brands: %w", err)
	}

	return brands, nil
}

// GetByID returns one brand by id.
func (r *BrandRepository) GetByID(ctx context.Context, id string) (*domain.Brand, error) {
	query := `
		SELECT ` + brandColumns + `
		FROM brands
		WHERE id = $1`

	var b domain.Brand
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Slug, &b.NameEN, &b.NameTH, &b.LogoURL, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("brand", id)
		}
		return nil, fmt.Errorf("query brand: %w", err)
	}

	return &b, nil
}
