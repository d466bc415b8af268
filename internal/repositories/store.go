package repositories

import (
	"gorm.io/gorm"
)

// Store bundles the repositories the settlement pipeline works against.
// Transaction rebinds every repository to a single database transaction;
// the pipeline commits one page of work per call, so a crash mid-run leaves
// earlier pages durably applied and only the in-flight page rolled back.
type Store interface {
	Users() UserRepository
	Expenses() ExpenseRepository
	ChatRooms() ChatRoomRepository
	Rewards() RewardRepository
	Notifications() NotificationRepository

	Transaction(fn func(Store) error) error
}

type GormStore struct {
	db            *gorm.DB
	users         UserRepository
	expenses      ExpenseRepository
	chatRooms     ChatRoomRepository
	rewards       RewardRepository
	notifications NotificationRepository
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:            db,
		users:         NewUserRepository(db),
		expenses:      NewExpenseRepository(db),
		chatRooms:     NewChatRoomRepository(db),
		rewards:       NewRewardRepository(db),
		notifications: NewNotificationRepository(db),
	}
}

func (s *GormStore) Users() UserRepository                 { return s.users }
func (s *GormStore) Expenses() ExpenseRepository           { return s.expenses }
func (s *GormStore) ChatRooms() ChatRoomRepository         { return s.chatRooms }
func (s *GormStore) Rewards() RewardRepository             { return s.rewards }
func (s *GormStore) Notifications() NotificationRepository { return s.notifications }

func (s *GormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
