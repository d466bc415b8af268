package database

import (
	"spendwise_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate migrates every model the pipeline reads or writes.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Expense{},
		&models.ChatRoom{},
		&models.ChatRoomMembership{},
		&models.Reward{},
		&models.Notification{},
		&models.NotificationRead{},
	)
}
