package elasticsearch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plazakit/searchsvc/internal/domain"
)

func TestProductSyncOps_ScriptedUpsertPerProduct(t *testing.T) {
	products := []domain.Product{
		{ID: "p-1", SKU: "SKU-1", TitleEN: "Widget", CreatedAt: time.Now()},
		{ID: "p-2", SKU: "SKU-2", TitleEN: "Gadget"},
	}

	ops := productSyncOps("plaza_products", products)
	require.Len(t, ops, 2)

	header := ops[0].header["update"].(M)
	assert.Equal(t, "plaza_products", header["_index"])
	assert.Equal(t, "SKU-1", header["_id"])

	script := ops[0].body["script"].(M)
	assert.Equal(t, "product_sync", script["id"])
	assert.Equal(t, true, ops[0].body["scripted_upsert"])
	assert.Contains(t, ops[0].body, "upsert")

	params := script["params"].(M)
	assert.Equal(t, &products[0], params["product"])
}

func TestBrandSyncOps_AddressedByID(t *testing.T) {
	ops := brandSyncOps("plaza_brands", []domain.Brand{{ID: "b-1", NameEN: "Acme"}})
	require.Len(t, ops, 1)

	header := ops[0].header["update"].(M)
	assert.Equal(t, "b-1", header["_id"])

	script := ops[0].body["script"].(M)
	assert.Equal(t, "brand_sync", script["id"])
	assert.Equal(t, true, ops[0].body["scripted_upsert"])
}

func TestStockTransitionOps_NoUpsertFallback(t *testing.T) {
	changes := []domain.StockChange{
		{LineID: "line-1", SKU: "SKU-1", StoreID: "st-1", Quantity: 3},
	}

	ops := stockTransitionOps("plaza_stocks", domain.StockReserve, changes)
	require.Len(t, ops, 1)

	header := ops[0].header["update"].(M)
	assert.Equal(t, "line-1", header["_id"])

	script := ops[0].body["script"].(M)
	assert.Equal(t, "stock_reserve", script["id"])
	assert.Equal(t, M{"sku": "SKU-1", "storeId": "st-1", "quantity": int64(3)}, script["params"])

	assert.NotContains(t, ops[0].body, "upsert")
	assert.NotContains(t, ops[0].body, "scripted_upsert")
}

func TestStockScript_OnePerTransition(t *testing.T) {
	transitions := []domain.StockTransition{
		domain.StockUpdate,
		domain.StockReserve,
		domain.StockCancel,
		domain.StockPay,
		domain.StockExpire,
	}

	for _, tr := range transitions {
		name := stockScript(tr)
		assert.Equal(t, "stock_"+string(tr), name)
		// Every transition script must actually be registered.
		assert.Contains(t, storedScripts, name)
	}
}

func TestStoredScripts_CoverSyncScripts(t *testing.T) {
	assert.Contains(t, storedScripts, scriptProductSync)
	assert.Contains(t, storedScripts, scriptBrandSync)
}
