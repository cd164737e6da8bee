// Package api defines the remote service contract the sync engine consumes:
// the wire-level types and the operations the OldKut backend exposes. The
// engine never talks to a transport directly; it holds a Client and a Stream.
package api

import (
	"context"
	"time"
)

// Notification kinds. The set is closed; the server rejects anything else.
const (
	KindFriendRequest = "friend_request"
	KindLike          = "like"
	KindComment       = "comment"
)

// UserRecord is the denormalized profile returned by the user endpoint.
// Everything outside the user cache references users by ID only.
type UserRecord struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Theme     string `json:"theme"`
	Friends   []uint `json:"friends,omitempty"`
	Blocked   []uint `json:"blocked,omitempty"`
}

// Comment is immutable once created and owned by its parent post.
type Comment struct {
	ID        uint      `json:"id"`
	AuthorID  uint      `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Post as delivered by the feed endpoint: likes are the IDs of the users who
// liked it (set semantics, no duplicates), comments in insertion order.
type Post struct {
	ID        uint      `json:"id"`
	AuthorID  uint      `json:"author_id"`
	Content   string    `json:"content"`
	Likes     []uint    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// Liked reports whether userID is in the post's like set.
func (p *Post) Liked(userID uint) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Notification as delivered by both the bulk endpoint and the push channel.
type Notification struct {
	ID          uint      `json:"id"`
	RecipientID uint      `json:"recipient_id"`
	ActorID     uint      `json:"actor_id"`
	Kind        string    `json:"kind"`
	TargetID    uint      `json:"target_id,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Client is the request/response surface of the backend.
type Client interface {
	GetFeed(ctx context.Context, viewerID uint, limit, offset int) ([]Post, error)
	CreatePost(ctx context.Context, authorID uint, content string) (Post, error)
	ToggleLike(ctx context.Context, postID, userID uint) error
	CreateComment(ctx context.Context, postID, authorID uint, content string) (Comment, error)
	GetUserProfile(ctx context.Context, userID uint) (UserRecord, error)
	ListNotifications(ctx context.Context, recipientID uint, limit int) ([]Notification, error)
	SetRead(ctx context.Context, ids []uint, read bool) error
}

// Stream is the live notification channel. Subscribe delivers insert events
// for the recipient in server order until stop is called or ctx ends.
type Stream interface {
	Subscribe(ctx context.Context, recipientID uint) (<-chan Notification, func(), error)
}
