package models

import (
	"time"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
)

// Post is the MongoDB post document. IDs are integers allocated from a
// counter sequence so recency stays inferable from the ID; likes and comments
// live on the relational side and are merged in by the feed handler.
type Post struct {
	ID        uint      `json:"id" bson:"_id"`
	AuthorID  uint      `json:"author_id" bson:"author_id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ToAPI assembles the wire post from the document plus its relational parts.
func (p *Post) ToAPI(likes []uint, comments []api.Comment) api.Post {
	if likes == nil {
		likes = []uint{}
	}
	if comments == nil {
		comments = []api.Comment{}
	}
	return api.Post{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Content:   p.Content,
		Likes:     likes,
		Comments:  comments,
		CreatedAt: p.CreatedAt,
	}
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
