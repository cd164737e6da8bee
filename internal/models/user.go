package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
)

// User is the relational profile row (PostgreSQL). Friend and block lists
// live in the friendships table and are folded in when building the wire
// record.
type User struct {
	gorm.Model `json:"-"`
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	AvatarURL  string `json:"avatar_url"`
	Theme      string `json:"theme" gorm:"size:30;default:'classic-pink'"`
	Password   string `json:"-"` // hashed, never serialized
}

// ToRecord builds the denormalized record served to clients.
func (u *User) ToRecord(friends, blocked []uint) api.UserRecord {
	return api.UserRecord{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Theme:     u.Theme,
		Friends:   friends,
		Blocked:   blocked,
	}
}

// UpdateProfileRequest defines the request body for editing one's own profile.
type UpdateProfileRequest struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Theme     string `json:"theme,omitempty" validate:"omitempty,oneof=classic-pink midnight-blue retro-green"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
