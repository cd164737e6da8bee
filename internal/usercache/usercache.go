// Package usercache holds the session-lifetime mapping from user ID to
// profile. It is the single source of truth for rendering any author or actor
// reference; the feed and notification controllers feed it as a side effect
// whenever they see an unfamiliar ID.
package usercache

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
)

// Fetcher is the slice of the backend the cache needs.
type Fetcher interface {
	GetUserProfile(ctx context.Context, userID uint) (api.UserRecord, error)
}

// Cache resolves user IDs to records, issuing at most one outstanding fetch
// per ID. Entries are never evicted during a session.
type Cache struct {
	fetcher Fetcher
	log     *logrus.Logger

	mu      sync.Mutex
	users   map[uint]api.UserRecord
	pending map[uint][]chan struct{}
}

// New creates an empty cache backed by the given fetcher.
func New(fetcher Fetcher, log *logrus.Logger) *Cache {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Cache{
		fetcher: fetcher,
		log:     log,
		users:   make(map[uint]api.UserRecord),
		pending: make(map[uint][]chan struct{}),
	}
}

// Resolve ensures the record for id is cached, fetching it if needed.
// Concurrent calls for the same ID share a single fetch. A failed fetch is
// logged and the ID left unresolved; callers treat an absent entry as an
// unknown author and degrade rendering instead of failing.
func (c *Cache) Resolve(ctx context.Context, id uint) {
	c.mu.Lock()
	if _, ok := c.users[id]; ok {
		c.mu.Unlock()
		return
	}
	if waiters, inflight := c.pending[id]; inflight {
		done := make(chan struct{})
		c.pending[id] = append(waiters, done)
		c.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
		}
		return
	}
	c.pending[id] = nil
	c.mu.Unlock()

	record, err := c.fetcher.GetUserProfile(ctx, id)

	c.mu.Lock()
	if err == nil {
		// Keyed by the record's own ID; in practice it matches the request.
		c.users[record.ID] = record
	} else {
		c.log.WithError(err).WithField("user_id", id).Warn("user profile fetch failed")
	}
	waiters := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()

	for _, done := range waiters {
		close(done)
	}
}

// ResolveAll resolves every ID in ids that is not yet cached.
func (c *Cache) ResolveAll(ctx context.Context, ids []uint) {
	for _, id := range ids {
		c.Resolve(ctx, id)
	}
}

// Get returns the cached record for id, if present.
func (c *Cache) Get(id uint) (api.UserRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	record, ok := c.users[id]
	return record, ok
}

// Put replaces the cached record, used when the viewing user edits their own
// profile.
func (c *Cache) Put(record api.UserRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[record.ID] = record
}

// Len reports the number of cached records.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.users)
}
