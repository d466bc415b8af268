package repositories

import (
	"errors"
	"time"

	"spendwise_backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrChatRoomNotFound   = errors.New("chat room not found")
	ErrMembershipNotFound = errors.New("chat room membership not found")
)

type ChatRoomRepository interface {
	FindPage(limit, offset int) ([]models.ChatRoom, error)
	FindAll() ([]models.ChatRoom, error)
	// FindMembershipsOrderedByScore returns the room's memberships ordered
	// by user score descending, unscored members last.
	FindMembershipsOrderedByScore(chatRoomID string) ([]models.ChatRoomMembership, error)
	// FindRankedByFilters returns the ranking cohort: rooms matching the
	// given filters (nil means no constraint on that axis) that have a
	// non-null total score, ordered by total score descending.
	FindRankedByFilters(age *models.AgeGroup, job *models.JobType) ([]models.ChatRoom, error)

	// Derived-field writes. These are the only paths that mutate membership
	// scores and room aggregates; request handlers never touch them.
	UpdateMembershipScore(membershipID string, score decimal.Decimal) error
	UpdateTotalScore(chatRoomID string, totalScore *float64) error
	UpdateStatistics(chatRoomID string, achievedCount, averageExpense int, ranking *float64, rankPosition *int) error
}

type ChatRoomRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRoomRepository(db *gorm.DB) ChatRoomRepository {
	return &ChatRoomRepositoryImpl{db: db}
}

func (r *ChatRoomRepositoryImpl) FindPage(limit, offset int) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := r.db.Order("created_at ASC").Limit(limit).Offset(offset).Find(&rooms).Error
	return rooms, err
}

func (r *ChatRoomRepositoryImpl) FindAll() ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := r.db.Order("created_at ASC").Find(&rooms).Error
	return rooms, err
}

func (r *ChatRoomRepositoryImpl) FindMembershipsOrderedByScore(chatRoomID string) ([]models.ChatRoomMembership, error) {
	var memberships []models.ChatRoomMembership
	err := r.db.Where("chat_room_id = ?", chatRoomID).
		Order("user_score DESC NULLS LAST").
		Find(&memberships).Error
	return memberships, err
}

func (r *ChatRoomRepositoryImpl) FindRankedByFilters(age *models.AgeGroup, job *models.JobType) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	query := r.db.Where("total_score IS NOT NULL")
	if age != nil {
		query = query.Where("age_group_filter = ?", *age)
	}
	if job != nil {
		query = query.Where("job_filter = ?", *job)
	}
	err := query.Order("total_score DESC").Find(&rooms).Error
	return rooms, err
}

func (r *ChatRoomRepositoryImpl) UpdateMembershipScore(membershipID string, score decimal.Decimal) error {
	result := r.db.Model(&models.ChatRoomMembership{}).Where("id = ?", membershipID).Updates(map[string]interface{}{
		"user_score": score,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

func (r *ChatRoomRepositoryImpl) UpdateTotalScore(chatRoomID string, totalScore *float64) error {
	result := r.db.Model(&models.ChatRoom{}).Where("id = ?", chatRoomID).Updates(map[string]interface{}{
		"total_score": totalScore,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChatRoomNotFound
	}
	return nil
}

func (r *ChatRoomRepositoryImpl) UpdateStatistics(chatRoomID string, achievedCount, averageExpense int, ranking *float64, rankPosition *int) error {
	result := r.db.Model(&models.ChatRoom{}).Where("id = ?", chatRoomID).Updates(map[string]interface{}{
		"achieved_count":  achievedCount,
		"average_expense": averageExpense,
		"ranking":         ranking,
		"rank_position":   rankPosition,
		"updated_at":      time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChatRoomNotFound
	}
	return nil
}
