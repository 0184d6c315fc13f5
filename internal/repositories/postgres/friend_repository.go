package postgres

import (
	"context"
	"fmt"

	"social-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRepository stores friend requests and the friendship rows they
// produce.
type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

func (r *FriendRepository) WithTx(tx *gorm.DB) *FriendRepository {
	return &FriendRepository{db: tx}
}

func (r *FriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// FindRequestForUpdate reads a request holding a row lock until the
// surrounding transaction ends.
func (r *FriendRepository) FindRequestForUpdate(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *FriendRepository) FindRequestsByIDs(ctx context.Context, ids []uint) (map[uint]*models.FriendRequest, error) {
	result := make(map[uint]*models.FriendRequest, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var reqs []*models.FriendRequest
	if err := r.db.WithContext(ctx).Where("id IN ?", uniqueIDs(ids)).Find(&reqs).Error; err != nil {
		return nil, err
	}
	for _, req := range reqs {
		result[req.ID] = req
	}
	return result, nil
}

func (r *FriendRepository) FindPending(ctx context.Context, requesterID, recipientID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND recipient_id = ? AND status = ?", requesterID, recipientID, models.FriendRequestPending).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// MarkAccepted moves a pending request to accepted. It reports false when
// the row was no longer pending.
func (r *FriendRepository) MarkAccepted(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("id = ? AND status = ?", id, models.FriendRequestPending).
		Update("status", models.FriendRequestAccepted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *FriendRepository) DeleteRequest(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FriendRequest{}, id).Error
}

// CreateFriendshipPair writes both directions of a friendship. Rows that
// already exist are left alone.
func (r *FriendRepository) CreateFriendshipPair(ctx context.Context, userID, friendID uint) error {
	pair := []models.Friendship{
		{UserID: userID, FriendID: friendID},
		{UserID: friendID, FriendID: userID},
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&pair).Error
	if err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

func (r *FriendRepository) AreFriends(ctx context.Context, userID, friendID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Count(&count).Error
	return count > 0, err
}

// FriendIDs returns the ids of userID's friends.
func (r *FriendRepository) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Pluck("friend_id", &ids).Error
	return ids, err
}

func (r *FriendRepository) CountFriendships(ctx context.Context, userID, friendID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Count(&count).Error
	return count, err
}
