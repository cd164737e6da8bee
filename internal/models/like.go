package models

import "gorm.io/gorm"

// Like represents one user's membership in a post's like set (PostgreSQL).
// The (post_id, user_id) pair is unique; toggling deletes or inserts a row.
type Like struct {
	gorm.Model
	PostID uint `json:"post_id" gorm:"index:idx_like_post_user,unique"`
	UserID uint `json:"user_id" gorm:"index:idx_like_post_user,unique"`
}
