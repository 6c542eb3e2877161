package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plazakit/searchsvc/internal/domain"
	"github.com/plazakit/searchsvc/pkg/database"
	apperrors "github.com/plazakit/searchsvc/pkg/errors"
)

func setupRepo(t *testing.T) (*BrandRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewBrandRepository(mock)
	return repo, mock
}

var brandCols = []string{"id", "slug", "name_en", "name_th", "logo_url", "updated_at"}

func sampleBrand() domain.Brand {
	return domain.Brand{
		ID:        "b-1",
		Slug:      "acme",
		NameEN:    "Acme",
		NameTH:    "แอคมี่",
		LogoURL:   "https://cdn.example.com/acme.png",
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGetByIDs_ReturnsBrandsKeyedByID(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	b := sampleBrand()
	rows := pgxmock.NewRows(brandCols).
		AddRow(b.ID, b.Slug, b.NameEN, b.NameTH, b.LogoURL, b.UpdatedAt).
		AddRow("b-2", "globex", "Globex", "โกลเบ็กซ์", "", b.UpdatedAt)

	mock.ExpectQuery("SELECT (.+) FROM brands").
		WithArgs([]string{"b-1", "b-2", "b-missing"}).
		WillReturnRows(rows)

	brands, err := repo.GetByIDs(context.Background(), []string{"b-1", "b-2", "b-missing"})
	require.NoError(t, err)

	require.Len(t, brands, 2)
	assert.Equal(t, b, brands["b-1"])
	assert.Equal(t, "Globex", brands["b-2"].NameEN)
	assert.NotContains(t, brands, "b-missing")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDs_EmptyInputSkipsQuery(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	brands, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, brands)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDs_PropagatesQueryError(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM brands").
		WithArgs([]string{"b-1"}).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByIDs(context.Background(), []string{"b-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query brands")
}

func TestGetByID_ReturnsBrand(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	b := sampleBrand()
	rows := pgxmock.NewRows(brandCols).
		AddRow(b.ID, b.Slug, b.NameEN, b.NameTH, b.LogoURL, b.UpdatedAt)

	mock.ExpectQuery("SELECT (.+) FROM brands").
		WithArgs("b-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, &b, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM brands").
		WithArgs("b-missing").
		WillReturnRows(pgxmock.NewRows(brandCols))

	_, err := repo.GetByID(context.Background(), "b-missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
