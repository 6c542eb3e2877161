package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plazakit/searchsvc/internal/domain"
	"github.com/plazakit/searchsvc/internal/engine/enginetest"
)

func TestPopularTerms_ReturnsTermList(t *testing.T) {
	eng := &enginetest.Fake{PopularTerms: []string{"sneaker", "boots"}}
	router := newTestRouter(eng)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/terms/popular?prefix=s", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, []any{"sneaker", "boots"}, data["terms"])
}

func TestBoostedRecords(t *testing.T) {
	eng := &enginetest.Fake{BoostedTerms: []domain.TermRecord{
		{Domain: "brand:b-1", Term: "sneaker", Score: 8},
	}}
	router := newTestRouter(eng)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/terms/boosted/records?brand_id=b-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBoostTerm_ScopedByBrand(t *testing.T) {
	eng := &enginetest.Fake{}
	router := newTestRouter(eng)

	rec := doRequest(t, router, http.MethodPut,
		"/api/v1/terms/boosted?brand_id=b-1", `{"term": "sneaker", "score": 7.5}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, eng.BoostCalls, 1)
	assert.Equal(t, "sneaker", eng.BoostCalls[0].Term)
	assert.Equal(t, 7.5, eng.BoostCalls[0].Score)
	assert.Equal(t, domain.Scope{BrandID: "b-1"}, eng.BoostCalls[0].Scope)
}

func TestBoostTerm_MissingTermFailsValidation(t *testing.T) {
	eng := &enginetest.Fake{}
	router := newTestRouter(eng)

	rec := doRequest(t, router, http.MethodPut, "/api/v1/terms/boosted", `{"score": 5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, eng.BoostCalls)
}

func TestDeletePopularTerms_ReturnsDeletedCount(t *testing.T) {
	eng := &enginetest.Fake{DeletedCount: 2}
	router := newTestRouter(eng)

	rec := doRequest(t, router, http.MethodDelete,
		"/api/v1/terms/popular", `{"terms": ["sneaker", "boots"]}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(2), data["deleted"])

	require.Len(t, eng.DeletedTerms, 1)
	assert.Equal(t, []string{"sneaker", "boots"}, eng.DeletedTerms[0])
}

func TestDeleteBoostedTerms_EmptyListFailsValidation(t *testing.T) {
	eng := &enginetest.Fake{}
	router := newTestRouter(eng)

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/terms/boosted", `{"terms": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, eng.DeletedTerms)
}
