package models

import "time"

type Expense struct {
	BaseModel
	UserID     string    `gorm:"not null;index"`
	CategoryID string    `gorm:"not null;index"`
	Day        time.Time `gorm:"type:date;not null;index"`
	// Amount is always 0 for no-spending entries.
	Amount       int  `gorm:"not null;default:0"`
	IsNoSpending bool `gorm:"default:false"`
}
