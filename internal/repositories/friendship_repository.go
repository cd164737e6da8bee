package repositories

import (
	"errors"

	"github.com/andreazevedo1975/OldKut-sub000/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friendship operations
type FriendshipRepository interface {
	CreateRequest(requesterID, addresseeID uint) error
	Accept(requesterID, addresseeID uint) error
	GetFriendIDs(userID uint) ([]uint, error)
	GetBlockedIDs(userID uint) ([]uint, error)
}

type postgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new friendship repository
func NewPostgresFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &postgresFriendshipRepository{db: db}
}

func (r *postgresFriendshipRepository) CreateRequest(requesterID, addresseeID uint) error {
	var existing models.Friendship
	err := r.db.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		requesterID, addresseeID, addresseeID, requesterID,
	).First(&existing).Error
	if err == nil {
		return errors.New("friendship already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&models.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.FriendshipPending,
	}).Error
}

func (r *postgresFriendshipRepository) Accept(requesterID, addresseeID uint) error {
	return r.db.Model(&models.Friendship{}).
		Where("requester_id = ? AND addressee_id = ? AND status = ?", requesterID, addresseeID, models.FriendshipPending).
		Update("status", models.FriendshipAccepted).Error
}

// GetFriendIDs returns the IDs of users with an accepted friendship with
// userID, in either direction.
func (r *postgresFriendshipRepository) GetFriendIDs(userID uint) ([]uint, error) {
	var friendships []models.Friendship
	err := r.db.Where(
		"(requester_id = ? OR addressee_id = ?) AND status = ?",
		userID, userID, models.FriendshipAccepted,
	).Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		if f.RequesterID == userID {
			ids = append(ids, f.AddresseeID)
		} else {
			ids = append(ids, f.RequesterID)
		}
	}
	return ids, nil
}

// GetBlockedIDs returns the IDs userID has blocked.
func (r *postgresFriendshipRepository) GetBlockedIDs(userID uint) ([]uint, error) {
	var friendships []models.Friendship
	err := r.db.Where("requester_id = ? AND status = ?", userID, models.FriendshipBlocked).Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		ids = append(ids, f.AddresseeID)
	}
	return ids, nil
}
