package repositories

import (
	"github.com/andreazevedo1975/OldKut-sub000/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentsByPostID(postID uint) ([]models.Comment, error)
	GetCommentsByPostIDs(postIDs []uint) (map[uint][]models.Comment, error)
}

type postgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new comment repository
func NewPostgresCommentRepository(db *gorm.DB) CommentRepository {
	return &postgresCommentRepository{db: db}
}

func (r *postgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *postgresCommentRepository) GetCommentsByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// GetCommentsByPostIDs loads comments for a page of posts in one query,
// grouped by post, preserving insertion order within each post.
func (r *postgresCommentRepository) GetCommentsByPostIDs(postIDs []uint) (map[uint][]models.Comment, error) {
	grouped := make(map[uint][]models.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return grouped, nil
	}
	var comments []models.Comment
	err := r.db.Where("post_id IN ?", postIDs).Order("created_at ASC").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		grouped[c.PostID] = append(grouped[c.PostID], c)
	}
	return grouped, nil
}
