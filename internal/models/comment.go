package models

import (
	"gorm.io/gorm"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
)

// Comment represents a comment on a post (PostgreSQL)
type Comment struct {
	gorm.Model
	PostID   uint   `json:"post_id" gorm:"index"`
	AuthorID uint   `json:"author_id" gorm:"index"`
	Content  string `json:"content"`
}

// ToAPI converts to the wire representation.
func (c *Comment) ToAPI() api.Comment {
	return api.Comment{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
