package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/plazakit/searchsvc/internal/domain"
	apperrors "github.com/plazakit/searchsvc/pkg/errors"
)

// Server-side stored script ids. The scripts are idempotent per natural id;
// this layer only names them and passes parameters.
const (
	scriptProductSync = "product_sync"
	scriptBrandSync   = "brand_sync"
)

// stockScript names the stored script for a stock transition.
func stockScript(t domain.StockTransition) string {
	return "stock_" + string(t)
}

// bulkOp is one update-or-insert operation pair: the action header line and
// the scripted body line of the bulk NDJSON payload.
type bulkOp struct {
	header M
	body   M
}

// updateOp builds the header for a scripted update addressed by natural id.
func updateOp(index, id string) M {
	return M{"update": M{"_index": index, "_id": id}}
}

// productSyncOps builds one scripted-upsert pair per product, addressed by
// SKU. The upsert fallback carries the full document for the create path.
func productSyncOps(index string, products []domain.Product) []bulkOp {
	ops := make([]bulkOp, 0, len(products))
	for i := range products {
		p := &products[i]
		ops = append(ops, bulkOp{
			header: updateOp(index, p.SKU),
			body: M{
				"script": M{
					"id":     scriptProductSync,
					"params": M{"product": p},
				},
				"upsert":          p,
				"scripted_upsert": true,
			},
		})
	}
	return ops
}

// brandSyncOps builds one scripted-upsert pair per brand, addressed by id.
func brandSyncOps(index string, brands []domain.Brand) []bulkOp {
	ops := make([]bulkOp, 0, len(brands))
	for i := range brands {
		b := &brands[i]
		ops = append(ops, bulkOp{
			header: updateOp(index, b.ID),
			body: M{
				"script": M{
					"id":     scriptBrandSync,
					"params": M{"brand": b},
				},
				"upsert":          b,
				"scripted_upsert": true,
			},
		})
	}
	return ops
}

// stockTransitionOps builds one scripted-update pair per stock line,
// addressed by line id. Stock transitions assume the target exists and
// carry no upsert fallback; a missing target is a script-level error. All
// transitions share this shape and differ only in script name.
func stockTransitionOps(index string, transition domain.StockTransition, changes []domain.StockChange) []bulkOp {
	ops := make([]bulkOp, 0, len(changes))
	for _, c := range changes {
		ops = append(ops, bulkOp{
			header: updateOp(index, c.LineID),
			body: M{
				"script": M{
					"id": stockScript(transition),
					"params": M{
						"sku":      c.SKU,
						"storeId":  c.StoreID,
						"quantity": c.Quantity,
					},
				},
			},
		})
	}
	return ops
}

// doBulk encodes the operation pairs as NDJSON and fires them in a single
// bulk request, surfacing per-item failures as one gateway error.
func (e *Engine) doBulk(ctx context.Context, ops []bulkOp) error {
	if len(ops) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, op := range ops {
		if err := enc.Encode(op.header); err != nil {
			return fmt.Errorf("bulk: encode header: %w", err)
		}
		if err := enc.Encode(op.body); err != nil {
			return fmt.Errorf("bulk: encode body: %w", err)
		}
	}

	res, err := e.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		e.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.classifyError("bulk", res)
	}

	var resp bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return apperrors.BadGateway("decode bulk response", err)
	}

	if resp.Errors {
		var msgs []string
		for _, item := range resp.Items {
			if item.Update.Error != nil {
				msgs = append(msgs, fmt.Sprintf("id=%s: %s: %s",
					item.Update.ID, item.Update.Error.Type, item.Update.Error.Reason))
			}
		}
		return apperrors.BadGateway(fmt.Sprintf("bulk: partial errors: %s", strings.Join(msgs, "; ")), nil)
	}

	return nil
}

// SaveProducts applies idempotent scripted upserts for the given products.
func (e *Engine) SaveProducts(ctx context.Context, products []domain.Product) error {
	if err := e.doBulk(ctx, productSyncOps(e.indices.Products, products)); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "products synced", slog.Int("count", len(products)))
	return nil
}

// SaveBrands applies idempotent scripted upserts for the given brands.
func (e *Engine) SaveBrands(ctx context.Context, brands []domain.Brand) error {
	if err := e.doBulk(ctx, brandSyncOps(e.indices.Brands, brands)); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "brands synced", slog.Int("count", len(brands)))
	return nil
}

// ApplyStockChanges runs the named stock transition script over the given
// stock lines in one bulk request.
func (e *Engine) ApplyStockChanges(ctx context.Context, transition domain.StockTransition, changes []domain.StockChange) error {
	if err := e.doBulk(ctx, stockTransitionOps(e.indices.Stocks, transition, changes)); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "stock transition applied",
		slog.String("transition", string(transition)),
		slog.Int("count", len(changes)),
	)
	return nil
}
