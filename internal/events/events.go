// Package events fans social activity out over NATS. Handlers publish small
// JSON events instead of writing notification rows inline; the Notifier
// consumes them, persists notifications and pushes them to the realtime
// channel.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subjects for social activity.
const (
	SubjectPostLiked       = "post.liked"
	SubjectPostCommented   = "post.commented"
	SubjectFriendRequested = "friend.requested"
)

// ActivityEvent is the payload for all three subjects. For friend requests
// PostID is zero and RecipientID is the addressee.
type ActivityEvent struct {
	ActorID     uint      `json:"actor_id"`
	RecipientID uint      `json:"recipient_id"`
	PostID      uint      `json:"post_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher publishes activity events.
type Publisher struct {
	nc *nats.Conn
}

// NewPublisher creates a publisher on an existing NATS connection.
func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

func (p *Publisher) publish(subject string, event ActivityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// PublishPostLiked publishes a like event addressed to the post's author.
func (p *Publisher) PublishPostLiked(actorID, authorID, postID uint) error {
	return p.publish(SubjectPostLiked, ActivityEvent{
		ActorID:     actorID,
		RecipientID: authorID,
		PostID:      postID,
		Timestamp:   time.Now(),
	})
}

// PublishPostCommented publishes a comment event addressed to the post's author.
func (p *Publisher) PublishPostCommented(actorID, authorID, postID uint) error {
	return p.publish(SubjectPostCommented, ActivityEvent{
		ActorID:     actorID,
		RecipientID: authorID,
		PostID:      postID,
		Timestamp:   time.Now(),
	})
}

// PublishFriendRequested publishes a friend-request event.
func (p *Publisher) PublishFriendRequested(actorID, addresseeID uint) error {
	return p.publish(SubjectFriendRequested, ActivityEvent{
		ActorID:     actorID,
		RecipientID: addresseeID,
		Timestamp:   time.Now(),
	})
}
