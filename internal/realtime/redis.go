// Package realtime carries live notification delivery over Redis pub/sub.
// The server publishes each inserted notification to a channel scoped to its
// recipient; clients subscribe to their own channel and receive inserts in
// publish order.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
)

func channelFor(recipientID uint) string {
	return fmt.Sprintf("notifications.%d", recipientID)
}

// Hub publishes and subscribes notification insert events.
type Hub struct {
	rdb *redis.Client
	log *logrus.Logger
}

// NewHub creates a hub on an existing Redis client.
func NewHub(rdb *redis.Client, log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{rdb: rdb, log: log}
}

// Publish sends a notification to its recipient's channel.
func (h *Hub) Publish(ctx context.Context, n api.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := h.rdb.Publish(ctx, channelFor(n.RecipientID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification %d: %w", n.ID, err)
	}
	return nil
}

// Subscribe opens the recipient's channel and returns a stream of decoded
// notifications plus a stop function. Satisfies api.Stream.
func (h *Hub) Subscribe(ctx context.Context, recipientID uint) (<-chan api.Notification, func(), error) {
	sub := h.rdb.Subscribe(ctx, channelFor(recipientID))
	// Receive forces the SUBSCRIBE round trip so a failed connection
	// surfaces here instead of as a silent dead channel.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe notifications for user %d: %w", recipientID, err)
	}

	out := make(chan api.Notification, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var n api.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				h.log.WithError(err).Warn("dropping malformed notification event")
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() { _ = sub.Close() }
	return out, stop, nil
}

var _ api.Stream = (*Hub)(nil)
