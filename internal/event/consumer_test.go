package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plazakit/searchsvc/internal/domain"
	"github.com/plazakit/searchsvc/internal/engine/enginetest"
	"github.com/plazakit/searchsvc/internal/service"
	pkgkafka "github.com/plazakit/searchsvc/pkg/kafka"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newConsumer(eng *enginetest.Fake) *Consumer {
	svc := service.NewSearchService(eng, nil, nil, nil, "", newTestLogger())
	return NewConsumer(svc, newTestLogger())
}

func mustEvent(t *testing.T, eventType string, data any) *pkgkafka.Event {
	t.Helper()
	event, err := pkgkafka.NewEvent(eventType, "agg-1", "product", "catalog-service", data)
	require.NoError(t, err)
	return event
}

func TestHandle_ProductUpserted(t *testing.T) {
	eng := &enginetest.Fake{}
	c := newConsumer(eng)

	event := mustEvent(t, TypeProductUpserted, domain.Product{SKU: "SKU-1", TitleEN: "Widget"})
	require.NoError(t, c.Handle(context.Background(), event))

	require.Len(t, eng.SavedProducts, 1)
	assert.Equal(t, "SKU-1", eng.SavedProducts[0][0].SKU)
}

func TestHandle_ProductDeleted(t *testing.T) {
	eng := &enginetest.Fake{}
	c := newConsumer(eng)

	event := mustEvent(t, TypeProductDeleted, ProductDeletedData{SKU: "SKU-1"})
	require.NoError(t, c.Handle(context.Background(), event))

	assert.Equal(t, []string{"SKU-1"}, eng.DeletedSKUs)
}

func TestHandle_ProductDeletedWithoutSKUIsSkipped(t *testing.T) {
	eng := &enginetest.Fake{}
	c := newConsumer(eng)

	event := mustEvent(t, TypeProductDeleted, ProductDeletedData{})
	require.NoError(t, c.Handle(context.Background(), event))

	assert.Empty(t, eng.DeletedSKUs)
}

func TestHandle_BrandUpserted(t *testing.T) {
	eng := &enginetest.Fake{}
	c := newConsumer(eng)

	event := mustEvent(t, TypeBrandUpserted, domain.Brand{ID: "b-1", NameEN: "Acme"})
	require.NoError(t, c.Handle(context.Background(), event))

	require.Len(t, eng.SavedBrands, 1)
	assert.Equal(t, "b-1", eng.SavedBrands[0][0].ID)
}

func TestHandle_RoutesEachStockEventToItsTransition(t *testing.T) {
	tests := []struct {
		eventType  string
		transition domain.StockTransition
	}{
		{TypeStockUpdated, domain.StockUpdate},
		{TypeOrderReserved, domain.StockReserve},
		{TypeOrderCancelled, domain.StockCancel},
		{TypeOrderPaid, domain.StockPay},
		{TypeOrderExpired, domain.StockExpire},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			eng := &enginetest.Fake{}
			c := newConsumer(eng)

			event := mustEvent(t, tt.eventType, StockEventData{Changes: []domain.StockChange{
				{LineID: "line-1", SKU: "SKU-1", StoreID: "st-1", Quantity: 2},
			}})
			require.NoError(t, c.Handle(context.Background(), event))

			require.Len(t, eng.StockCalls, 1)
			assert.Equal(t, tt.transition, eng.StockCalls[0].Transition)
			assert.Equal(t, "line-1", eng.StockCalls[0].Changes[0].LineID)
		})
	}
}

func TestHandle_UnknownEventTypeIsCommitted(t *testing.T) {
	eng := &enginetest.Fake{}
	c := newConsumer(eng)

	event := mustEvent(t, "plaza.payment.settled", map[string]string{"id": "pay-1"})
	require.NoError(t, c.Handle(context.Background(), event))

	assert.Empty(t, eng.SavedProducts)
	assert.Empty(t, eng.StockCalls)
}

func TestHandle_MalformedPayloadPropagatesError(t *testing.T) {
	eng := &enginetest.Fake{}
	c := newConsumer(eng)

	event := mustEvent(t, TypeProductUpserted, "not an object")
	err := c.Handle(context.Background(), event)
	require.Error(t, err)
}

func TestHandle_EngineFailurePropagatesForRetry(t *testing.T) {
	eng := &enginetest.Fake{StockErr: errors.New("bulk rejected")}
	c := newConsumer(eng)

	event := mustEvent(t, TypeOrderReserved, StockEventData{Changes: []domain.StockChange{
		{LineID: "line-1", Quantity: 1},
	}})
	err := c.Handle(context.Background(), event)
	require.Error(t, err)
}
