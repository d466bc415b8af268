package models

type User struct {
	BaseModel
	Nickname string `gorm:"not null"`
	// DayTargetExpenditure is the user's self-set daily spending budget.
	// Unset means the budget term of the daily score contributes nothing.
	DayTargetExpenditure *int
	RewardBalance        int `gorm:"not null;default:0"`

	// Relations
	Categories  []Category           `gorm:"foreignKey:UserID"`
	Memberships []ChatRoomMembership `gorm:"foreignKey:UserID"`
	Rewards     []Reward             `gorm:"foreignKey:UserID"`
}

type Category struct {
	BaseModel
	UserID string `gorm:"not null;index"`
	Name   string `gorm:"not null"`
}
