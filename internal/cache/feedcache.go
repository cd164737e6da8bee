// Package cache keeps the hot first feed page in Redis so the common
// "open the home page" read skips Mongo and Postgres entirely.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
)

const (
	firstPageKey = "feed:first_page"
	firstPageTTL = 2 * time.Minute
)

// FeedCache caches the enriched first feed page.
type FeedCache struct {
	rdb *redis.Client
}

// NewFeedCache creates a cache on an existing Redis client.
func NewFeedCache(rdb *redis.Client) *FeedCache {
	return &FeedCache{rdb: rdb}
}

// GetFirstPage returns the cached first page, or ok=false on miss or error.
func (c *FeedCache) GetFirstPage(ctx context.Context, limit int) ([]api.Post, bool) {
	raw, err := c.rdb.Get(ctx, firstPageKey).Result()
	if err != nil {
		return nil, false
	}
	var posts []api.Post
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		return nil, false
	}
	if len(posts) < limit {
		return nil, false
	}
	return posts[:limit], true
}

// SetFirstPage stores the first page with a short TTL.
func (c *FeedCache) SetFirstPage(ctx context.Context, posts []api.Post) error {
	payload, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, firstPageKey, payload, firstPageTTL).Err()
}

// Invalidate drops the cached page. Called on any mutation that changes what
// the first page shows.
func (c *FeedCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, firstPageKey).Err()
}
