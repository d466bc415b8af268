package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AgeGroup string

const (
	AgeGroupTeens     AgeGroup = "teens"
	AgeGroupTwenties  AgeGroup = "twenties"
	AgeGroupThirties  AgeGroup = "thirties"
	AgeGroupForties   AgeGroup = "forties"
	AgeGroupFiftyPlus AgeGroup = "fifty_plus"
	AgeGroupUndecided AgeGroup = "undecided"
)

type JobType string

const (
	JobTypeStudent      JobType = "student"
	JobTypeOfficeWorker JobType = "office_worker"
	JobTypeSelfEmployed JobType = "self_employed"
	JobTypeFreelancer   JobType = "freelancer"
	JobTypeHomemaker    JobType = "homemaker"
	JobTypeUndecided    JobType = "undecided"
)

// ChatRoom is a challenge group: a cohort of users competing on spending
// discipline against a shared daily goal.
type ChatRoom struct {
	BaseModel
	Title              string    `gorm:"not null"`
	MaxParticipants    int       `gorm:"not null"`
	ParticipationCount int       `gorm:"not null;default:0"`
	AgeGroupFilter     *AgeGroup `gorm:"type:varchar(20)"`
	JobFilter          *JobType  `gorm:"type:varchar(20)"`
	DailySpendingGoal  int       `gorm:"not null"`

	// Derived fields, written only by the settlement pipeline.
	AchievedCount  int `gorm:"not null;default:0"`
	AverageExpense int `gorm:"not null;default:0"`
	// TotalScore stays NULL while the room has fewer than the minimum
	// number of scored members, which keeps it out of ranking cohorts.
	TotalScore *float64
	// Ranking is the percentile within the filter cohort; RankPosition is
	// the 1-based position the percentile was derived from.
	Ranking      *float64
	RankPosition *int

	Memberships []ChatRoomMembership `gorm:"foreignKey:ChatRoomID;constraint:OnDelete:CASCADE"`
}

// HasAgeFilter reports whether the room constrains the member age group.
// NULL and "undecided" both mean the axis is unconstrained.
func (r *ChatRoom) HasAgeFilter() bool {
	return r.AgeGroupFilter != nil && *r.AgeGroupFilter != AgeGroupUndecided
}

// HasJobFilter reports whether the room constrains the member job type.
func (r *ChatRoom) HasJobFilter() bool {
	return r.JobFilter != nil && *r.JobFilter != JobTypeUndecided
}

type ChatRoomMembership struct {
	BaseModel
	UserID     string `gorm:"not null;uniqueIndex:idx_membership_user_room"`
	ChatRoomID string `gorm:"not null;uniqueIndex:idx_membership_user_room"`
	// UserScore is the member's daily behavior score, replicated to every
	// room the user belongs to. Written only by the settlement pipeline.
	UserScore decimal.NullDecimal `gorm:"type:numeric(12,4)"`
	IsHost    bool                `gorm:"default:false"`
	IsBanned  bool                `gorm:"default:false"`
	JoinedAt  time.Time           `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID"`
}
