package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string `gorm:"not null;index"`
	Type    string `gorm:"not null"` // "ranking_reward"
	Title   string `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"` // {"chat_room_id": "...", "amount": 15}
}

// NotificationRead tracks per-recipient read state. The settlement pipeline
// creates exactly one of these for every notification it emits.
type NotificationRead struct {
	BaseModel
	NotificationID string `gorm:"not null;uniqueIndex"`
	UserID         string `gorm:"not null;index"`
	IsRead         bool   `gorm:"default:false"`
	ReadAt         *time.Time
}
