package repositories

import (
	"time"

	"spendwise_backend/internal/models"

	"gorm.io/gorm"
)

type RewardRepository interface {
	// Create appends one ledger entry. Entries are never updated or deleted.
	Create(reward *models.Reward) error
	// ExistsForSettlement reports whether the user already has a ranking
	// reward for this room and settlement day. The settlement stage checks
	// this before crediting so a replayed run cannot double-credit.
	ExistsForSettlement(userID, chatRoomID string, day time.Time) (bool, error)
}

type RewardRepositoryImpl struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &RewardRepositoryImpl{db: db}
}

func (r *RewardRepositoryImpl) Create(reward *models.Reward) error {
	return r.db.Create(reward).Error
}

func (r *RewardRepositoryImpl) ExistsForSettlement(userID, chatRoomID string, day time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Reward{}).
		Where("user_id = ? AND chat_room_id = ? AND settlement_day = ? AND reason = ?",
			userID, chatRoomID, day, models.RewardReasonRanking).
		Count(&count).Error
	return count > 0, err
}
