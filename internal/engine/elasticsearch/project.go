package elasticsearch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/plazakit/searchsvc/internal/domain"
	"github.com/plazakit/searchsvc/pkg/cursor"
	apperrors "github.com/plazakit/searchsvc/pkg/errors"
)

const (
	// totalRelationExact is the relation the engine reports when the total
	// is an exact count; anything else marks the total as an estimate.
	totalRelationExact = "eq"

	// colorKeyDelimiter joins the parts of a composite color bucket key:
	// code__labelEn__labelTh.
	colorKeyDelimiter = "__"

	suggestChannelEN = "suggest_en"
	suggestChannelTH = "suggest_th"
)

// projectHits decodes the hits into typed items and computes the
// next-cursor. A cursor is emitted only when the page came back full; a
// short page is end-of-results, and a cursor there would point at a
// phantom empty page. A full-page hit without sort values is a broken
// engine invariant and surfaces as a gateway error.
func projectHits[T any](resp *searchResponse, size int) ([]T, string, error) {
	hits := resp.Hits.Hits

	items := make([]T, 0, len(hits))
	for _, h := range hits {
		var item T
		if err := json.Unmarshal(h.Source, &item); err != nil {
			return nil, "", apperrors.BadGateway(fmt.Sprintf("malformed document %s in search response", h.ID), err)
		}
		items = append(items, item)
	}

	next := ""
	if size > 0 && len(hits) == size {
		last := hits[len(hits)-1]
		if len(last.Sort) == 0 {
			return nil, "", apperrors.BadGateway("search hit missing sort values on a full page", nil)
		}
		token, err := cursor.Encode(last.Sort)
		if err != nil {
			return nil, "", apperrors.BadGateway("encode next cursor", err)
		}
		next = token
	}

	return items, next, nil
}

// projectTotal returns the total count and whether it is an estimate. The
// total is exact only when the engine reports the exact-match relation; a
// missing relation means no total was reported, so the item count stands in
// as an estimate.
func projectTotal(resp *searchResponse, itemCount int) (int64, bool) {
	total := resp.Hits.Total
	if total.Relation == "" {
		return int64(itemCount), true
	}
	return total.Value, total.Relation != totalRelationExact
}

// bucketKey renders an aggregation bucket key as a string.
func bucketKey(k any) string {
	switch v := k.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// splitColorKey decodes the composite color bucket key. A key without the
// expected three parts degrades to blank labels so one malformed swatch
// cannot fail the whole facet display.
func splitColorKey(key string) (code string, label domain.ColorLabel) {
	parts := strings.Split(key, colorKeyDelimiter)
	if len(parts) != 3 {
		return key, domain.ColorLabel{}
	}
	return parts[0], domain.ColorLabel{EN: parts[1], TH: parts[2]}
}

// projectFacets maps whichever aggregations came back into the typed facet
// result. Returns nil when the response carried no facet data at all.
func projectFacets(resp *searchResponse) *domain.Facets {
	if len(resp.Aggregations) == 0 {
		return nil
	}

	f := &domain.Facets{}

	if agg, ok := resp.Aggregations["brands"]; ok {
		f.Brands = make([]domain.BrandCount, 0, len(agg.Buckets))
		for _, b := range agg.Buckets {
			f.Brands = append(f.Brands, domain.BrandCount{
				ID:    bucketKey(b.Key),
				Count: b.DocCount,
			})
		}
	}

	if agg, ok := resp.Aggregations["categories"]; ok {
		f.Categories = make([]domain.CategoryCount, 0, len(agg.Buckets))
		for _, b := range agg.Buckets {
			f.Categories = append(f.Categories, domain.CategoryCount{
				Slug:  bucketKey(b.Key),
				Count: b.DocCount,
			})
		}
	}

	if agg, ok := resp.Aggregations["colors"]; ok {
		f.Colors = make([]domain.ColorSwatch, 0, len(agg.Buckets))
		for _, b := range agg.Buckets {
			code, label := splitColorKey(bucketKey(b.Key))
			f.Colors = append(f.Colors, domain.ColorSwatch{
				Code:  code,
				Label: label,
				Count: b.DocCount,
			})
		}
	}

	minAgg, hasMin := resp.Aggregations["priceMin"]
	maxAgg, hasMax := resp.Aggregations["priceMax"]
	if hasMin && hasMax && minAgg.Value != nil && maxAgg.Value != nil {
		f.Price = &domain.PriceBounds{Min: *minAgg.Value, Max: *maxAgg.Value}
	}

	return f
}

// projectSuggestions collects completion texts, preferring the English
// channel and falling back to the Thai one. Both channels empty, or no
// suggest block at all, yields an empty list.
func projectSuggestions(resp *searchResponse) []string {
	for _, channel := range []string{suggestChannelEN, suggestChannelTH} {
		entries, ok := resp.Suggest[channel]
		if !ok {
			continue
		}

		seen := make(map[string]struct{})
		var texts []string
		for _, entry := range entries {
			for _, opt := range entry.Options {
				if _, dup := seen[opt.Text]; dup {
					continue
				}
				seen[opt.Text] = struct{}{}
				texts = append(texts, opt.Text)
			}
		}
		if len(texts) > 0 {
			return texts
		}
	}
	return nil
}
