// Package event consumes catalog and order domain events from Kafka and
// maps them onto the search service's sync and stock operations.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plazakit/searchsvc/internal/domain"
	"github.com/plazakit/searchsvc/internal/service"
	pkgkafka "github.com/plazakit/searchsvc/pkg/kafka"
)

// Event types consumed from the catalog and order domains.
const (
	TypeProductUpserted = "plaza.product.upserted"
	TypeProductDeleted  = "plaza.product.deleted"
	TypeBrandUpserted   = "plaza.brand.upserted"

	TypeStockUpdated   = "plaza.stock.updated"
	TypeOrderReserved  = "plaza.order.reserved"
	TypeOrderCancelled = "plaza.order.cancelled"
	TypeOrderPaid      = "plaza.order.paid"
	TypeOrderExpired   = "plaza.order.expired"
)

// Topics returns the Kafka topics the search service subscribes to. Events
// are published on topics named after their event type.
func Topics() []string {
	return []string{
		TypeProductUpserted,
		TypeProductDeleted,
		TypeBrandUpserted,
		TypeStockUpdated,
		TypeOrderReserved,
		TypeOrderCancelled,
		TypeOrderPaid,
		TypeOrderExpired,
	}
}

// stockTransitionByType maps a stock lifecycle event type to its transition.
var stockTransitionByType = map[string]domain.StockTransition{
	TypeStockUpdated:   domain.StockUpdate,
	TypeOrderReserved:  domain.StockReserve,
	TypeOrderCancelled: domain.StockCancel,
	TypeOrderPaid:      domain.StockPay,
	TypeOrderExpired:   domain.StockExpire,
}

// ProductDeletedData is the payload of a product.deleted event.
type ProductDeletedData struct {
	SKU string `json:"sku"`
}

// StockEventData is the payload of the stock lifecycle events: the affected
// stock lines of one order or stock refresh.
type StockEventData struct {
	Changes []domain.StockChange `json:"changes"`
}

// Consumer routes domain events onto search service operations.
type Consumer struct {
	svc    *service.SearchService
	logger *slog.Logger
}

// NewConsumer creates a new event consumer for the search service.
func NewConsumer(svc *service.SearchService, logger *slog.Logger) *Consumer {
	return &Consumer{svc: svc, logger: logger}
}

// Handle processes one event based on its type. Unknown types are logged
// and committed so they cannot wedge the partition.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	if transition, ok := stockTransitionByType[event.EventType]; ok {
		return c.handleStock(ctx, event, transition)
	}

	switch event.EventType {
	case TypeProductUpserted:
		return c.handleProductUpserted(ctx, event)
	case TypeProductDeleted:
		return c.handleProductDeleted(ctx, event)
	case TypeBrandUpserted:
		return c.handleBrandUpserted(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

func (c *Consumer) handleProductUpserted(ctx context.Context, event *pkgkafka.Event) error {
	var product domain.Product
	if err := event.UnmarshalData(&product); err != nil {
		return fmt.Errorf("unmarshal product.upserted data: %w", err)
	}

	if err := c.svc.SaveProducts(ctx, []domain.Product{product}); err != nil {
		return fmt.Errorf("save product from event: %w", err)
	}

	c.logger.InfoContext(ctx, "product synced from event",
		slog.String("sku", product.SKU),
		slog.String("event_id", event.EventID),
	)
	return nil
}

func (c *Consumer) handleProductDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data ProductDeletedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal product.deleted data: %w", err)
	}
	if data.SKU == "" {
		c.logger.WarnContext(ctx, "product.deleted event without sku",
			slog.String("event_id", event.EventID),
		)
		return nil
	}

	if err := c.svc.DeleteBySKU(ctx, data.SKU); err != nil {
		return fmt.Errorf("delete product from event: %w", err)
	}
	return nil
}

func (c *Consumer) handleBrandUpserted(ctx context.Context, event *pkgkafka.Event) error {
	var brand domain.Brand
	if err := event.UnmarshalData(&brand); err != nil {
		return fmt.Errorf("unmarshal brand.upserted data: %w", err)
	}

	if err := c.svc.SyncBrands(ctx, []domain.Brand{brand}); err != nil {
		return fmt.Errorf("sync brand from event: %w", err)
	}
	return nil
}

func (c *Consumer) handleStock(ctx context.Context, event *pkgkafka.Event, transition domain.StockTransition) error {
	var data StockEventData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}

	if err := c.svc.ApplyStock(ctx, transition, data.Changes); err != nil {
		return fmt.Errorf("apply stock from event: %w", err)
	}

	c.logger.InfoContext(ctx, "stock transition applied from event",
		slog.String("transition", string(transition)),
		slog.Int("changes", len(data.Changes)),
		slog.String("event_id", event.EventID),
	)
	return nil
}
