package elasticsearch

// Stored update scripts, registered at startup. Each is idempotent per
// document: repeated application with the same parameters converges on the
// same state. The bulk builder only references them by id.
var storedScripts = map[string]string{
	// Full-document refresh keyed by SKU; createdAt survives the update.
	scriptProductSync: `
		def p = params.product;
		def created = ctx._source.createdAt;
		ctx._source.putAll(p);
		if (created != null) { ctx._source.createdAt = created; }`,

	scriptBrandSync: `ctx._source.putAll(params.brand);`,

	// Absolute stock refresh.
	"stock_update": `
		ctx._source.quantity = params.quantity;
		ctx._source.store_id = params.storeId;
		ctx._source.sku = params.sku;`,

	// Lifecycle transitions move quantity between the available and
	// reserved buckets.
	"stock_reserve": `
		ctx._source.quantity -= params.quantity;
		ctx._source.reserved += params.quantity;`,

	"stock_cancel": `
		ctx._source.quantity += params.quantity;
		ctx._source.reserved -= params.quantity;`,

	"stock_pay": `ctx._source.reserved -= params.quantity;`,

	"stock_expire": `
		ctx._source.quantity += params.quantity;
		ctx._source.reserved -= params.quantity;`,
}
