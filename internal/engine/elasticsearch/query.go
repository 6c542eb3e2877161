package elasticsearch

import (
	"fmt"
	"strings"

	"github.com/plazakit/searchsvc/internal/domain"
	"github.com/plazakit/searchsvc/pkg/cursor"
	apperrors "github.com/plazakit/searchsvc/pkg/errors"
)

const (
	facetBucketSize = 30
	suggestSize     = 5
)

// boolClauses accumulates the three sections of the composite bool query.
// Each clause builder appends to the section its rule calls for; the
// builders are independent so each compilation rule is testable on its own.
type boolClauses struct {
	should []M
	must   []M
	filter []M
}

func (b *boolClauses) empty() bool {
	return len(b.should) == 0 && len(b.must) == 0 && len(b.filter) == 0
}

// toQuery folds the collected clauses into a bool query. With no clauses at
// all the compiler falls back to match_all; an empty bool is rejected by
// the engine.
func (b *boolClauses) toQuery() M {
	if b.empty() {
		return M{"match_all": M{}}
	}

	boolBody := M{}
	if len(b.should) > 0 {
		boolBody["should"] = b.should
		boolBody["minimum_should_match"] = 1
	}
	if len(b.must) > 0 {
		boolBody["must"] = b.must
	}
	if len(b.filter) > 0 {
		boolBody["filter"] = b.filter
	}
	return M{"bool": boolBody}
}

// clauseBuilder contributes one filter dimension's clauses to the query.
type clauseBuilder func(opts *domain.ListOptions, b *boolClauses)

// productClauseBuilders lists the clause builders in rule precedence order.
var productClauseBuilders = []clauseBuilder{
	skuClauses,
	keywordClauses,
	categoryClauses,
	colorClauses,
	priceClauses,
	storeClauses,
	brandClauses,
	categoryPinClauses,
}

// skuClauses requires at least one requested SKU to match, either at the
// product top level or inside a nested store offer. SKUs are ANDed with the
// other filters but ORed among themselves.
func skuClauses(opts *domain.ListOptions, b *boolClauses) {
	if len(opts.SKUs) == 0 {
		return
	}

	pairs := make([]M, 0, 2*len(opts.SKUs))
	for _, sku := range opts.SKUs {
		pairs = append(pairs,
			M{"term": M{"sku": sku}},
			M{"nested": M{
				"path":  "offers",
				"query": M{"term": M{"offers.sku": sku}},
			}},
		)
	}

	b.must = append(b.must, M{"bool": M{
		"should":               pairs,
		"minimum_should_match": 1,
	}})
}

// keywordClauses matches the keyword as a phrase prefix against either
// language title field.
func keywordClauses(opts *domain.ListOptions, b *boolClauses) {
	if opts.Keyword == "" {
		return
	}

	b.should = append(b.should,
		M{"match_phrase_prefix": M{"titleEn": opts.Keyword}},
		M{"match_phrase_prefix": M{"titleTh": opts.Keyword}},
	)
}

// categoryClauses ORs the requested category slugs.
func categoryClauses(opts *domain.ListOptions, b *boolClauses) {
	for _, slug := range opts.Categories {
		b.should = append(b.should, M{"term": M{"categories": slug}})
	}
}

// colorClauses makes color filtering mandatory when specified, ORed across
// the requested colors.
func colorClauses(opts *domain.ListOptions, b *boolClauses) {
	if len(opts.Colors) == 0 {
		return
	}

	terms := make([]M, 0, len(opts.Colors))
	for _, c := range opts.Colors {
		terms = append(terms, M{"term": M{"colors": c}})
	}

	b.must = append(b.must, M{"bool": M{
		"should":               terms,
		"minimum_should_match": 1,
	}})
}

// priceClauses adds an independent range constraint per present bound; an
// absent bound leaves that side open. An inverted range is not rejected
// here and simply matches nothing.
func priceClauses(opts *domain.ListOptions, b *boolClauses) {
	if opts.PriceMin != nil {
		b.filter = append(b.filter, M{"range": M{"actualMinPrice": M{"gte": *opts.PriceMin}}})
	}
	if opts.PriceMax != nil {
		b.filter = append(b.filter, M{"range": M{"actualMinPrice": M{"lte": *opts.PriceMax}}})
	}
}

// storeClauses pins the search to one store or mall via exact nested match.
func storeClauses(opts *domain.ListOptions, b *boolClauses) {
	if opts.Scope.StoreID != "" {
		b.filter = append(b.filter, M{"nested": M{
			"path":  "offers",
			"query": M{"term": M{"offers.storeId": opts.Scope.StoreID}},
		}})
	}
	if opts.Scope.MallID != "" {
		b.filter = append(b.filter, M{"nested": M{
			"path":  "offers",
			"query": M{"term": M{"offers.mallId": opts.Scope.MallID}},
		}})
	}
}

// brandClauses applies either the single-brand pin or the multi-brand
// inclusion filter. The pin also suppresses the brand facet (see
// buildProductAggregations); the multi-value filter does not, since a
// multi-select UI still wants counts for the other options.
func brandClauses(opts *domain.ListOptions, b *boolClauses) {
	if opts.BrandID != "" {
		b.filter = append(b.filter, M{"term": M{"brandId": opts.BrandID}})
		return
	}
	if len(opts.BrandIDs) > 0 {
		b.filter = append(b.filter, M{"terms": M{"brandId": opts.BrandIDs}})
	}
}

// categoryPinClauses applies the single-category pin, with the same facet
// suppression rule as the brand pin.
func categoryPinClauses(opts *domain.ListOptions, b *boolClauses) {
	if opts.CategoryID != "" {
		b.filter = append(b.filter, M{"term": M{"categories": opts.CategoryID}})
	}
}

// mapSortField maps the caller's sort token to the index field through the
// fixed alias table. Unrecognized tokens are a client error, never a
// silent fallback.
func mapSortField(token string) (string, error) {
	lower := strings.ToLower(token)
	switch {
	case token == domain.SortCreatedAt:
		return "createdAt", nil
	case strings.Contains(lower, "price"):
		return "actualMinPrice", nil
	case lower == "discountpercent":
		return "discountPercent", nil
	case lower == "id":
		return "id", nil
	default:
		return "", apperrors.InvalidInput(fmt.Sprintf("unknown sort field: %s", token))
	}
}

// buildSort assembles the sort directive: relevance first, then the mapped
// explicit field if any, and always an id-ascending tiebreak so equal-score
// items cannot swap order between pages.
func buildSort(field, order string) ([]M, error) {
	sort := []M{{"_score": M{"order": domain.OrderDesc}}}

	if field != "" {
		mapped, err := mapSortField(field)
		if err != nil {
			return nil, err
		}
		if order == "" {
			order = domain.OrderDesc
		}
		if order != domain.OrderAsc && order != domain.OrderDesc {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unknown sort order: %s", order))
		}
		sort = append(sort, M{mapped: M{"order": order}})
	}

	sort = append(sort, M{"id": M{"order": domain.OrderAsc}})
	return sort, nil
}

// buildProductAggregations derives the facet aggregation request. Brand and
// category facets are requested only when asked for and not pinned; the
// color facet only when asked for; the price bounds always, so the UI can
// show the full range even under pinned filters.
func buildProductAggregations(opts *domain.ListOptions, facets []string) M {
	requested := make(map[string]bool, len(facets))
	for _, f := range facets {
		requested[f] = true
	}

	aggs := M{
		"priceMin": M{"min": M{"field": "actualMinPrice"}},
		"priceMax": M{"max": M{"field": "actualMinPrice"}},
	}

	if requested[domain.FacetBrand] && opts.BrandID == "" {
		aggs["brands"] = M{"terms": M{"field": "brandId", "size": facetBucketSize}}
	}
	if requested[domain.FacetCategory] && opts.CategoryID == "" {
		aggs["categories"] = M{"terms": M{"field": "categories", "size": facetBucketSize}}
	}
	if requested[domain.FacetColor] {
		aggs["colors"] = M{"terms": M{"field": "colors", "size": facetBucketSize}}
	}

	return aggs
}

// buildSuggest registers one completion request per language title field.
func buildSuggest(keyword string) M {
	return M{
		suggestChannelEN: M{
			"prefix":     keyword,
			"completion": M{"field": "titleEn.suggest", "size": suggestSize},
		},
		suggestChannelTH: M{
			"prefix":     keyword,
			"completion": M{"field": "titleTh.suggest", "size": suggestSize},
		},
	}
}

// compileProductSearch builds the full search body for a product list
// request: composite bool query, sort directive, facet aggregations,
// suggestion requests, and the search_after resume position.
func compileProductSearch(opts *domain.ListOptions, facets []string) (M, error) {
	b := &boolClauses{}
	for _, build := range productClauseBuilders {
		build(opts, b)
	}

	sort, err := buildSort(opts.Sort, opts.Order)
	if err != nil {
		return nil, err
	}

	body := M{
		"query":            b.toQuery(),
		"size":             opts.Size,
		"sort":             sort,
		"track_total_hits": true,
		"aggs":             buildProductAggregations(opts, facets),
	}

	if opts.Keyword != "" {
		body["suggest"] = buildSuggest(opts.Keyword)
	}

	if opts.Cursor != "" {
		tuple, err := cursor.Decode(opts.Cursor)
		if err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("malformed cursor: %s", opts.Cursor))
		}
		body["search_after"] = tuple
	}

	return body, nil
}

// compileBrandSearch builds the search body for a brand list request:
// keyword against the bilingual brand names, relevance order with the id
// tiebreak, cursor resume. Brands carry no facets.
func compileBrandSearch(opts *domain.ListOptions) (M, error) {
	b := &boolClauses{}
	if opts.Keyword != "" {
		b.should = append(b.should,
			M{"match_phrase_prefix": M{"nameEn": opts.Keyword}},
			M{"match_phrase_prefix": M{"nameTh": opts.Keyword}},
		)
	}

	sort, err := buildSort(opts.Sort, opts.Order)
	if err != nil {
		return nil, err
	}

	body := M{
		"query":            b.toQuery(),
		"size":             opts.Size,
		"sort":             sort,
		"track_total_hits": true,
	}

	if opts.Cursor != "" {
		tuple, err := cursor.Decode(opts.Cursor)
		if err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("malformed cursor: %s", opts.Cursor))
		}
		body["search_after"] = tuple
	}

	return body, nil
}
