package models

import "time"

const RewardReasonRanking = "ranking_reward"

// Reward is an append-only ledger entry. Each entry is paired with a
// matching balance credit on the owning user.
type Reward struct {
	BaseModel
	UserID      string `gorm:"not null;index"`
	ChatRoomID  string `gorm:"index"`
	Amount      int    `gorm:"not null"`
	Reason      string `gorm:"not null"`
	Description string
	// SettlementDay is the scored day the grant belongs to. One grant per
	// (user, room, day, reason) — the settlement stage checks before
	// crediting so a replayed run cannot double-credit.
	SettlementDay time.Time `gorm:"type:date;index"`
}
