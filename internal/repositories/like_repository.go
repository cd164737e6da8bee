package repositories

import (
	"errors"

	"github.com/andreazevedo1975/OldKut-sub000/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like operations
type LikeRepository interface {
	ToggleLike(postID, userID uint) (liked bool, err error)
	HasUserLikedPost(postID, userID uint) (bool, error)
	GetLikerIDsByPostIDs(postIDs []uint) (map[uint][]uint, error)
}

type postgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new like repository
func NewPostgresLikeRepository(db *gorm.DB) LikeRepository {
	return &postgresLikeRepository{db: db}
}

// ToggleLike flips the user's membership in the post's like set and reports
// the resulting state. The unique (post_id, user_id) index keeps the set free
// of duplicates even under concurrent toggles.
func (r *postgresLikeRepository) ToggleLike(postID, userID uint) (bool, error) {
	var like models.Like
	err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error
	if err == nil {
		if err := r.db.Unscoped().Delete(&like).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	like = models.Like{PostID: postID, UserID: userID}
	if err := r.db.Create(&like).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *postgresLikeRepository) HasUserLikedPost(postID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error
	return count > 0, err
}

// GetLikerIDsByPostIDs loads the like sets for a page of posts in one query,
// ordered by like creation so the sequence is stable.
func (r *postgresLikeRepository) GetLikerIDsByPostIDs(postIDs []uint) (map[uint][]uint, error) {
	grouped := make(map[uint][]uint, len(postIDs))
	if len(postIDs) == 0 {
		return grouped, nil
	}
	var likes []models.Like
	err := r.db.Where("post_id IN ?", postIDs).Order("created_at ASC").Find(&likes).Error
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		grouped[l.PostID] = append(grouped[l.PostID], l.UserID)
	}
	return grouped, nil
}
