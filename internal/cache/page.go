// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page HTML cache for anonymous
// visitors. Home, category and recipe pages are stored after rendering so
// repeat requests skip the database and template execution. Any recipe or
// category mutation clears every cached page.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages full-page HTML caching in Valkey. A nil *PageCache is
// valid and behaves as an always-missing cache.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves cached HTML for a page key.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single page from the cache.
func (pc *PageCache) Invalidate(ctx context.Context, key string) {
	if pc == nil {
		return
	}
	if err := pc.client.Del(ctx, pageKeyPrefix+key).Err(); err != nil {
		slog.Warn("page cache invalidate error", "key", key, "error", err)
		return
	}
	slog.Debug("page cache invalidated", "key", key)
}

// InvalidateAll removes all cached pages by scanning for the prefix.
// Listings are paginated and cross-linked, so a single recipe change can
// shift any page.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}

// HomeKey returns the cache key for a page of the home listing.
func HomeKey(page int) string {
	return fmt.Sprintf("home:%d", page)
}

// CategoryKey returns the cache key for a page of a category listing.
func CategoryKey(id uuid.UUID, page int) string {
	return fmt.Sprintf("category:%s:%d", id, page)
}

// RecipeKey returns the cache key for a recipe detail page.
func RecipeKey(id uuid.UUID) string {
	return "recipe:" + id.String()
}
