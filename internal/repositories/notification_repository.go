package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"spendwise_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const NotificationTypeRankingReward = "ranking_reward"

var ErrInvalidNotificationData = errors.New("invalid notification data")

type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	CreateNotificationRead(read *models.NotificationRead) error

	// CreateRankingRewardNotification creates the notification for one
	// reward grant together with its unread read-state row. The pairing is
	// enforced here: there is no path that creates one without the other.
	CreateRankingRewardNotification(userID, chatRoomID, chatRoomTitle string, amount int) error
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) CreateNotification(notification *models.Notification) error {
	if notification.UserID == "" {
		return errors.New("user ID is required")
	}
	if notification.Type == "" {
		return errors.New("notification type is required")
	}
	if len(notification.Data) > 0 && !json.Valid(notification.Data) {
		return ErrInvalidNotificationData
	}
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateNotificationRead(read *models.NotificationRead) error {
	if read.NotificationID == "" {
		return errors.New("notification ID is required")
	}
	return r.db.Create(read).Error
}

func (r *NotificationRepositoryImpl) CreateRankingRewardNotification(userID, chatRoomID, chatRoomTitle string, amount int) error {
	data := map[string]interface{}{
		"chat_room_id": chatRoomID,
		"amount":       amount,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    NotificationTypeRankingReward,
		Title:   "Challenge reward received",
		Message: fmt.Sprintf("You received %d points in '%s'", amount, chatRoomTitle),
		Data:    datatypes.JSON(jsonData),
	}

	if err := r.CreateNotification(notification); err != nil {
		return err
	}

	read := &models.NotificationRead{
		NotificationID: notification.ID,
		UserID:         userID,
		IsRead:         false,
	}
	return r.CreateNotificationRead(read)
}
