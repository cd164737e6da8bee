// Package notifications merges the bulk notification fetch with the live
// push channel into one newest-first, deduplicated in-memory sequence, and
// carries the optimistic read-flag mutations.
package notifications

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
	"github.com/andreazevedo1975/OldKut-sub000/internal/usercache"
)

// InitialLimit is how many notifications the bulk load requests.
const InitialLimit = 30

// Controller owns the notification sequence for one recipient.
type Controller struct {
	client api.Client
	stream api.Stream
	users  *usercache.Cache
	log    *logrus.Logger

	mu          sync.Mutex
	recipientID uint
	items       []api.Notification
	stop        func()
}

// NewController creates a controller for recipientID.
func NewController(client api.Client, stream api.Stream, users *usercache.Cache, recipientID uint, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		client:      client,
		stream:      stream,
		users:       users,
		log:         log,
		recipientID: recipientID,
	}
}

// LoadInitial fetches the most recent notifications, newest first, and
// resolves each distinct actor. A failed fetch is logged and leaves whatever
// was already loaded.
func (c *Controller) LoadInitial(ctx context.Context) {
	c.mu.Lock()
	recipient := c.recipientID
	c.mu.Unlock()

	items, err := c.client.ListNotifications(ctx, recipient, InitialLimit)
	if err != nil {
		c.log.WithError(err).Warn("notification load failed")
		return
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	c.resolveActors(ctx, items)
}

// Start opens the live subscription. At most one subscription is active per
// controller; any existing one is torn down first so a re-authentication
// never double-delivers. Delivery runs until Stop or ctx ends.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	recipient := c.recipientID
	c.mu.Unlock()

	events, stop, err := c.stream.Subscribe(ctx, recipient)
	if err != nil {
		return fmt.Errorf("subscribe notifications for user %d: %w", recipient, err)
	}

	c.mu.Lock()
	c.stop = stop
	c.mu.Unlock()

	go func() {
		for n := range events {
			c.push(ctx, n)
		}
	}()
	return nil
}

// Stop tears down the live subscription, if any.
func (c *Controller) Stop() {
	c.mu.Lock()
	stop := c.stop
	c.stop = nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// push prepends a live event unless its ID is already present. Events arrive
// in server order and are never re-sorted.
func (c *Controller) push(ctx context.Context, n api.Notification) {
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == n.ID {
			c.mu.Unlock()
			return
		}
	}
	c.items = append([]api.Notification{n}, c.items...)
	c.mu.Unlock()

	if c.users != nil {
		c.users.Resolve(ctx, n.ActorID)
	}
}

// MarkAsRead optimistically flips one notification's read flag, confirms with
// the server and reverts the flag on failure. done, if non-nil, runs whether
// or not the item needed updating.
func (c *Controller) MarkAsRead(ctx context.Context, id uint, done func()) error {
	if done != nil {
		defer done()
	}

	c.mu.Lock()
	idx := -1
	for i := range c.items {
		if c.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || c.items[idx].Read {
		c.mu.Unlock()
		return nil
	}
	c.items[idx].Read = true
	c.mu.Unlock()

	if err := c.client.SetRead(ctx, []uint{id}, true); err != nil {
		c.mu.Lock()
		for i := range c.items {
			if c.items[i].ID == id {
				c.items[i].Read = false
			}
		}
		c.mu.Unlock()
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return nil
}

// MarkAllAsRead flips every unread notification optimistically and issues one
// batched update for exactly those IDs. On failure exactly those IDs revert
// to unread; notifications already read are untouched either way.
func (c *Controller) MarkAllAsRead(ctx context.Context) error {
	c.mu.Lock()
	var unread []uint
	for i := range c.items {
		if !c.items[i].Read {
			unread = append(unread, c.items[i].ID)
			c.items[i].Read = true
		}
	}
	c.mu.Unlock()

	if len(unread) == 0 {
		return nil
	}

	if err := c.client.SetRead(ctx, unread, true); err != nil {
		flip := make(map[uint]bool, len(unread))
		for _, id := range unread {
			flip[id] = true
		}
		c.mu.Lock()
		for i := range c.items {
			if flip[c.items[i].ID] {
				c.items[i].Read = false
			}
		}
		c.mu.Unlock()
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// Notifications returns a snapshot, newest first.
func (c *Controller) Notifications() []api.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.Notification(nil), c.items...)
}

// Unread returns the number of unread notifications currently loaded.
func (c *Controller) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for i := range c.items {
		if !c.items[i].Read {
			count++
		}
	}
	return count
}

func (c *Controller) resolveActors(ctx context.Context, items []api.Notification) {
	if c.users == nil {
		return
	}
	seen := make(map[uint]bool, len(items))
	for i := range items {
		if !seen[items[i].ActorID] {
			seen[items[i].ActorID] = true
			c.users.Resolve(ctx, items[i].ActorID)
		}
	}
}
