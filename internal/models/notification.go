package models

import (
	"time"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Kind        string    `json:"kind" gorm:"size:30;index"` // friend_request, like, comment
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	TargetID    uint      `json:"target_id"` // post or comment ID, zero for friend requests
	Read        bool      `json:"read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// ToAPI converts to the wire representation shared with the push channel.
func (n *Notification) ToAPI() api.Notification {
	return api.Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		ActorID:     n.ActorID,
		Kind:        n.Kind,
		TargetID:    n.TargetID,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}

// SetReadRequest defines the request body for the batched read-flag update.
type SetReadRequest struct {
	IDs  []uint `json:"ids" validate:"required,min=1"`
	Read bool   `json:"read"`
}
