package repositories

import (
	"errors"

	"spendwise_backend/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	// FindPageWithMemberships returns one page of users ordered by creation
	// time, each with its membership rows preloaded.
	FindPageWithMemberships(limit, offset int) ([]models.User, error)
	CountCategories(userID string) (int64, error)
	// CreditRewardBalance atomically adds delta to the user's balance.
	CreditRewardBalance(userID string, delta int) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindPageWithMemberships(limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Memberships").
		Order("created_at ASC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) CountCategories(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) CreditRewardBalance(userID string, delta int) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("reward_balance", gorm.Expr("reward_balance + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
