package models

import "gorm.io/gorm"

// Friendship statuses.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipBlocked  = "blocked"
)

// Friendship represents a directed friendship edge (PostgreSQL). An accepted
// edge counts for both users; a blocked edge only for the requester.
type Friendship struct {
	gorm.Model
	RequesterID uint   `json:"requester_id" gorm:"index:idx_friendship_pair,unique"`
	AddresseeID uint   `json:"addressee_id" gorm:"index:idx_friendship_pair,unique"`
	Status      string `json:"status" gorm:"size:20;default:'pending'"`
}

// FriendRequestRequest defines the request body for sending a friend request.
type FriendRequestRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}
