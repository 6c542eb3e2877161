package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_Fields(t *testing.T) {
	type stockData struct {
		SKU      string `json:"sku"`
		Quantity int64  `json:"quantity"`
	}

	data := stockData{SKU: "SKU-1", Quantity: 3}
	event, err := NewEvent("plaza.order.reserved", "ord-123", "order", "order-service", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "plaza.order.reserved", event.EventType)
	assert.Equal(t, "ord-123", event.AggregateID)
	assert.Equal(t, "order", event.AggregateType)
	assert.Equal(t, "order-service", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)
	assert.NotNil(t, event.Metadata)

	var roundTripped stockData
	require.NoError(t, json.Unmarshal(event.Data, &roundTripped))
	assert.Equal(t, data, roundTripped)
}

func TestNewEvent_InvalidData(t *testing.T) {
	// Channels are not serializable to JSON.
	_, err := NewEvent("plaza.test", "agg-1", "test", "test-service", make(chan int))
	require.Error(t, err)
}

func TestEvent_MarshalUnmarshalRoundTrip(t *testing.T) {
	event, err := NewEvent("plaza.product.deleted", "SKU-9", "product", "catalog-service", map[string]string{"sku": "SKU-9"})
	require.NoError(t, err)
	event.CorrelationID = "corr-1"

	raw, err := event.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, got.EventID)
	assert.Equal(t, event.EventType, got.EventType)
	assert.Equal(t, event.CorrelationID, got.CorrelationID)
}

func TestEvent_UnmarshalData(t *testing.T) {
	event, err := NewEvent("plaza.product.deleted", "SKU-9", "product", "catalog-service", map[string]string{"sku": "SKU-9"})
	require.NoError(t, err)

	var payload struct {
		SKU string `json:"sku"`
	}
	require.NoError(t, event.UnmarshalData(&payload))
	assert.Equal(t, "SKU-9", payload.SKU)
}

func TestEvent_UnmarshalData_Invalid(t *testing.T) {
	event := &Event{Data: json.RawMessage(`{"sku": 42`)}

	var payload map[string]any
	require.Error(t, event.UnmarshalData(&payload))
}

func TestUnmarshalEvent_InvalidJSON(t *testing.T) {
	_, err := UnmarshalEvent([]byte("not json"))
	require.Error(t, err)
}
