package domain

// StockTransition names the server-side script applied to a stock line.
type StockTransition string

// Stock lifecycle transitions. Update refreshes absolute quantities; the
// other four move quantity between the available and reserved buckets and
// assume the target document already exists.
const (
	StockUpdate  StockTransition = "update"
	StockReserve StockTransition = "reserve"
	StockCancel  StockTransition = "cancel"
	StockPay     StockTransition = "pay"
	StockExpire  StockTransition = "expire"
)

// StockChange is one stock-line mutation. LineID is the natural identity of
// the stock line (sku + store), stable across transitions.
type StockChange struct {
	LineID   string `json:"line_id"`
	SKU      string `json:"sku"`
	StoreID  string `json:"store_id"`
	Quantity int64  `json:"quantity"`
}
