package elasticsearch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/plazakit/searchsvc/internal/domain"
	apperrors "github.com/plazakit/searchsvc/pkg/errors"
)

const (
	// termResultSize bounds every term read path.
	termResultSize = 10

	// trackRetryBudget is the retry_on_conflict budget for the popular-term
	// increment. Concurrent searches for the same term race on one
	// document; after the budget is spent the write is abandoned by the
	// caller since the hit count is an analytics signal, not state.
	trackRetryBudget = 3
)

// termDocID derives the deterministic document id of (domain, term) so
// repeated writes always target the same record.
func termDocID(domainKey, term string) string {
	sum := sha256.Sum256([]byte(domainKey + ":" + term))
	return hex.EncodeToString(sum[:])
}

// normalizeTerm lowercases and trims a tracked term.
func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// TrackSearched increments the hit counter of (scope domain, term),
// creating the record on first sight. Write conflicts from concurrent
// searchers are retried by the engine up to the fixed budget.
func (e *Engine) TrackSearched(ctx context.Context, scope domain.Scope, term string) error {
	term = normalizeTerm(term)
	if term == "" {
		return nil
	}
	domainKey := scope.Domain()
	now := time.Now().UTC()

	body := M{
		"script": M{
			"source": "ctx._source.hitCount += params.count; ctx._source.updatedAt = params.now",
			"lang":   "painless",
			"params": M{"count": 1, "now": now.Format(time.RFC3339)},
		},
		"upsert": domain.TermRecord{
			Domain:    domainKey,
			Term:      term,
			HitCount:  1,
			UpdatedAt: now,
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal term update: %w", err)
	}

	res, err := e.client.Update(
		e.indices.PopularTerms,
		termDocID(domainKey, term),
		bytes.NewReader(data),
		e.client.Update.WithRetryOnConflict(trackRetryBudget),
		e.client.Update.WithContext(ctx),
	)
	if err != nil {
		return apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.classifyError("track searched term", res)
	}
	return nil
}

// SetBoostedScore sets the boosted score of (scope domain, term), last
// write wins. Unlike hit tracking this propagates failures: boosted terms
// are operator-configured and a lost write should be visible.
func (e *Engine) SetBoostedScore(ctx context.Context, scope domain.Scope, term string, score float64) error {
	term = normalizeTerm(term)
	if term == "" {
		return apperrors.InvalidInput("boosted term must not be empty")
	}
	domainKey := scope.Domain()

	body := M{
		"doc": domain.TermRecord{
			Domain:    domainKey,
			Term:      term,
			Score:     score,
			UpdatedAt: time.Now().UTC(),
		},
		"doc_as_upsert": true,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal boosted term update: %w", err)
	}

	res, err := e.client.Update(
		e.indices.BoostedTerms,
		termDocID(domainKey, term),
		bytes.NewReader(data),
		e.client.Update.WithContext(ctx),
	)
	if err != nil {
		return apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.classifyError("set boosted score", res)
	}
	return nil
}

// buildTermQuery assembles the read query for a term index: pinned to the
// scope domain, optionally narrowed by a term prefix, ranked by relevance
// and then by the domain signal (hit count or score).
func buildTermQuery(domainKey, prefix, rankField string) M {
	b := &boolClauses{}
	b.filter = append(b.filter, M{"term": M{"domain": domainKey}})
	if prefix != "" {
		b.must = append(b.must, M{"prefix": M{"term": normalizeTerm(prefix)}})
	}

	return M{
		"query": b.toQuery(),
		"size":  termResultSize,
		"sort": []M{
			{"_score": M{"order": domain.OrderDesc}},
			{rankField: M{"order": domain.OrderDesc}},
		},
	}
}

// queryTerms runs a term read query and decodes the matching records.
func (e *Engine) queryTerms(ctx context.Context, index string, body M) ([]domain.TermRecord, error) {
	resp, err := e.doSearch(ctx, index, body)
	if err != nil {
		return nil, err
	}

	records := make([]domain.TermRecord, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		var rec domain.TermRecord
		if err := json.Unmarshal(h.Source, &rec); err != nil {
			return nil, apperrors.BadGateway("malformed term record", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ListBoosted returns the boosted terms of the scope, highest score first.
func (e *Engine) ListBoosted(ctx context.Context, scope domain.Scope) ([]domain.TermRecord, error) {
	return e.queryTerms(ctx, e.indices.BoostedTerms, buildTermQuery(scope.Domain(), "", "score"))
}

// QueryPopular returns popular terms of the scope matching the optional
// prefix, most searched first.
func (e *Engine) QueryPopular(ctx context.Context, scope domain.Scope, prefix string) ([]string, error) {
	records, err := e.queryTerms(ctx, e.indices.PopularTerms, buildTermQuery(scope.Domain(), prefix, "hitCount"))
	if err != nil {
		return nil, err
	}
	return termStrings(records), nil
}

// QueryBoosted returns boosted terms of the scope matching the optional
// prefix, highest score first.
func (e *Engine) QueryBoosted(ctx context.Context, scope domain.Scope, prefix string) ([]string, error) {
	records, err := e.queryTerms(ctx, e.indices.BoostedTerms, buildTermQuery(scope.Domain(), prefix, "score"))
	if err != nil {
		return nil, err
	}
	return termStrings(records), nil
}

func termStrings(records []domain.TermRecord) []string {
	terms := make([]string, 0, len(records))
	for _, r := range records {
		terms = append(terms, r.Term)
	}
	return terms
}

// deleteTerms removes the given terms of the scope from a term index and
// returns the number of deleted records. An empty term set is a no-op.
func (e *Engine) deleteTerms(ctx context.Context, index string, scope domain.Scope, terms []string) (int64, error) {
	if len(terms) == 0 {
		return 0, nil
	}

	normalized := make([]string, 0, len(terms))
	for _, t := range terms {
		normalized = append(normalized, normalizeTerm(t))
	}

	body := M{
		"query": M{
			"bool": M{
				"filter": []M{
					{"term": M{"domain": scope.Domain()}},
					{"terms": M{"term": normalized}},
				},
			},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal delete terms query: %w", err)
	}

	res, err := e.client.DeleteByQuery(
		[]string{index},
		bytes.NewReader(data),
		e.client.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return 0, apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return 0, e.classifyError("delete terms", res)
	}

	var resp deleteByQueryResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return 0, apperrors.BadGateway("decode delete terms response", err)
	}
	return resp.Deleted, nil
}

// DeletePopularTerms removes the given popular terms of the scope.
func (e *Engine) DeletePopularTerms(ctx context.Context, scope domain.Scope, terms []string) (int64, error) {
	return e.deleteTerms(ctx, e.indices.PopularTerms, scope, terms)
}

// DeleteBoostedTerms removes the given boosted terms of the scope.
func (e *Engine) DeleteBoostedTerms(ctx context.Context, scope domain.Scope, terms []string) (int64, error) {
	return e.deleteTerms(ctx, e.indices.BoostedTerms, scope, terms)
}
