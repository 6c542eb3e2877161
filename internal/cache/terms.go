// Package cache caches hot term-suggestion reads in Redis. The cache is
// strictly an accelerator: every failure falls through to the engine, and
// a stale entry is tolerated for the short TTL.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plazakit/searchsvc/internal/domain"
)

const keyPrefix = "terms:"

// DefaultTTL bounds staleness of cached suggestion lists. Popular-term
// rankings move slowly, so a short TTL is enough.
const DefaultTTL = 30 * time.Second

// TermCache is a Redis read-through cache for term suggestion lists.
type TermCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewTermCache creates a Redis-backed term cache. A non-positive ttl falls
// back to DefaultTTL.
func NewTermCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *TermCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TermCache{client: client, ttl: ttl, logger: logger}
}

// key partitions cached lists by kind (popular or boosted), scope domain,
// and prefix.
func key(kind string, scope domain.Scope, prefix string) string {
	return fmt.Sprintf("%s%s:%s:%s", keyPrefix, kind, scope.Domain(), prefix)
}

// Get returns the cached term list and whether it was present. Errors are
// logged and reported as a miss.
func (c *TermCache) Get(ctx context.Context, kind string, scope domain.Scope, prefix string) ([]string, bool) {
	data, err := c.client.Get(ctx, key(kind, scope, prefix)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "term cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var terms []string
	if err := json.Unmarshal(data, &terms); err != nil {
		c.logger.WarnContext(ctx, "term cache entry malformed", slog.String("error", err.Error()))
		return nil, false
	}
	return terms, true
}

// Set stores the term list under the configured TTL, best effort.
func (c *TermCache) Set(ctx context.Context, kind string, scope domain.Scope, prefix string, terms []string) {
	data, err := json.Marshal(terms)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(kind, scope, prefix), data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "term cache write failed", slog.String("error", err.Error()))
	}
}

// Invalidate drops every cached list of the scope, called after term
// deletions so removed terms stop being suggested within one scan.
func (c *TermCache) Invalidate(ctx context.Context, scope domain.Scope) {
	pattern := keyPrefix + "*:" + scope.Domain() + ":*"

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.WarnContext(ctx, "term cache scan failed", slog.String("error", err.Error()))
		return
	}

	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "term cache invalidation failed", slog.String("error", err.Error()))
	}
}
