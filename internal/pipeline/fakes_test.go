package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"spendwise_backend/internal/models"
	"spendwise_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// fakeStore is an in-memory repositories.Store shared by the stage tests.
// Every repository interface is implemented on the same struct, and
// Transaction simply runs fn against the store itself.
type fakeStore struct {
	users          []*models.User
	categoryCounts map[string]int64

	// per-user expense facts for the scored day
	spend        map[string]int64
	noSpendCount map[string]int64
	filledCount  map[string]int64

	rooms             []*models.ChatRoom
	membershipsByRoom map[string][]*models.ChatRoomMembership
	membershipByID    map[string]*models.ChatRoomMembership

	balances          map[string]int
	missingUsers      map[string]bool
	rewards           []*models.Reward
	notifications     []*models.Notification
	notificationReads []*models.NotificationRead

	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categoryCounts:    make(map[string]int64),
		spend:             make(map[string]int64),
		noSpendCount:      make(map[string]int64),
		filledCount:       make(map[string]int64),
		membershipsByRoom: make(map[string][]*models.ChatRoomMembership),
		membershipByID:    make(map[string]*models.ChatRoomMembership),
		balances:          make(map[string]int),
		missingUsers:      make(map[string]bool),
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) addUser(user *models.User) *models.User {
	if user.ID == "" {
		user.ID = f.id("user")
	}
	f.users = append(f.users, user)
	return user
}

func (f *fakeStore) addRoom(room *models.ChatRoom) *models.ChatRoom {
	if room.ID == "" {
		room.ID = f.id("room")
	}
	f.rooms = append(f.rooms, room)
	return room
}

func (f *fakeStore) addMembership(m *models.ChatRoomMembership) *models.ChatRoomMembership {
	if m.ID == "" {
		m.ID = f.id("membership")
	}
	f.membershipsByRoom[m.ChatRoomID] = append(f.membershipsByRoom[m.ChatRoomID], m)
	f.membershipByID[m.ID] = m
	for _, u := range f.users {
		if u.ID == m.UserID {
			u.Memberships = append(u.Memberships, *m)
		}
	}
	return m
}

func (f *fakeStore) roomByID(id string) *models.ChatRoom {
	for _, room := range f.rooms {
		if room.ID == id {
			return room
		}
	}
	return nil
}

// Store

func (f *fakeStore) Users() repositories.UserRepository                 { return f }
func (f *fakeStore) Expenses() repositories.ExpenseRepository           { return f }
func (f *fakeStore) ChatRooms() repositories.ChatRoomRepository         { return f }
func (f *fakeStore) Rewards() repositories.RewardRepository             { return f }
func (f *fakeStore) Notifications() repositories.NotificationRepository { return f }

func (f *fakeStore) Transaction(fn func(repositories.Store) error) error {
	return fn(f)
}

// UserRepository

func (f *fakeStore) FindPageWithMemberships(limit, offset int) ([]models.User, error) {
	if offset >= len(f.users) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.users) {
		end = len(f.users)
	}
	page := make([]models.User, 0, end-offset)
	for _, u := range f.users[offset:end] {
		page = append(page, *u)
	}
	return page, nil
}

func (f *fakeStore) CountCategories(userID string) (int64, error) {
	return f.categoryCounts[userID], nil
}

func (f *fakeStore) CreditRewardBalance(userID string, delta int) error {
	if f.missingUsers[userID] {
		return repositories.ErrUserNotFound
	}
	f.balances[userID] += delta
	return nil
}

// ExpenseRepository

func (f *fakeStore) SumAmountByDay(userID string, day time.Time) (int64, error) {
	return f.spend[userID], nil
}

func (f *fakeStore) CountNoSpendingByDay(userID string, day time.Time) (int64, error) {
	return f.noSpendCount[userID], nil
}

func (f *fakeStore) CountDistinctCategoriesByDay(userID string, day time.Time) (int64, error) {
	return f.filledCount[userID], nil
}

// ChatRoomRepository

func (f *fakeStore) FindPage(limit, offset int) ([]models.ChatRoom, error) {
	if offset >= len(f.rooms) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.rooms) {
		end = len(f.rooms)
	}
	page := make([]models.ChatRoom, 0, end-offset)
	for _, room := range f.rooms[offset:end] {
		page = append(page, *room)
	}
	return page, nil
}

func (f *fakeStore) FindAll() ([]models.ChatRoom, error) {
	all := make([]models.ChatRoom, 0, len(f.rooms))
	for _, room := range f.rooms {
		all = append(all, *room)
	}
	return all, nil
}

func (f *fakeStore) FindMembershipsOrderedByScore(chatRoomID string) ([]models.ChatRoomMembership, error) {
	rows := f.membershipsByRoom[chatRoomID]
	ordered := make([]models.ChatRoomMembership, 0, len(rows))
	for _, m := range rows {
		ordered = append(ordered, *m)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].UserScore, ordered[j].UserScore
		if a.Valid != b.Valid {
			return a.Valid
		}
		if !a.Valid {
			return false
		}
		return a.Decimal.GreaterThan(b.Decimal)
	})
	return ordered, nil
}

func (f *fakeStore) FindRankedByFilters(age *models.AgeGroup, job *models.JobType) ([]models.ChatRoom, error) {
	var cohort []models.ChatRoom
	for _, room := range f.rooms {
		if room.TotalScore == nil {
			continue
		}
		if age != nil && (room.AgeGroupFilter == nil || *room.AgeGroupFilter != *age) {
			continue
		}
		if job != nil && (room.JobFilter == nil || *room.JobFilter != *job) {
			continue
		}
		cohort = append(cohort, *room)
	}
	sort.SliceStable(cohort, func(i, j int) bool {
		return *cohort[i].TotalScore > *cohort[j].TotalScore
	})
	return cohort, nil
}

func (f *fakeStore) UpdateMembershipScore(membershipID string, score decimal.Decimal) error {
	m, ok := f.membershipByID[membershipID]
	if !ok {
		return repositories.ErrMembershipNotFound
	}
	m.UserScore.Decimal = score
	m.UserScore.Valid = true
	return nil
}

func (f *fakeStore) UpdateTotalScore(chatRoomID string, totalScore *float64) error {
	room := f.roomByID(chatRoomID)
	if room == nil {
		return repositories.ErrChatRoomNotFound
	}
	room.TotalScore = totalScore
	return nil
}

func (f *fakeStore) UpdateStatistics(chatRoomID string, achievedCount, averageExpense int, ranking *float64, rankPosition *int) error {
	room := f.roomByID(chatRoomID)
	if room == nil {
		return repositories.ErrChatRoomNotFound
	}
	room.AchievedCount = achievedCount
	room.AverageExpense = averageExpense
	room.Ranking = ranking
	room.RankPosition = rankPosition
	return nil
}

// RewardRepository

func (f *fakeStore) Create(reward *models.Reward) error {
	if reward.ID == "" {
		reward.ID = f.id("reward")
	}
	f.rewards = append(f.rewards, reward)
	return nil
}

func (f *fakeStore) ExistsForSettlement(userID, chatRoomID string, day time.Time) (bool, error) {
	for _, r := range f.rewards {
		if r.UserID == userID && r.ChatRoomID == chatRoomID &&
			r.SettlementDay.Equal(day) && r.Reason == models.RewardReasonRanking {
			return true, nil
		}
	}
	return false, nil
}

// NotificationRepository

func (f *fakeStore) CreateNotification(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = f.id("notification")
	}
	f.notifications = append(f.notifications, notification)
	return nil
}

func (f *fakeStore) CreateNotificationRead(read *models.NotificationRead) error {
	if read.ID == "" {
		read.ID = f.id("notification-read")
	}
	f.notificationReads = append(f.notificationReads, read)
	return nil
}

func (f *fakeStore) CreateRankingRewardNotification(userID, chatRoomID, chatRoomTitle string, amount int) error {
	data, err := json.Marshal(map[string]interface{}{
		"chat_room_id": chatRoomID,
		"amount":       amount,
	})
	if err != nil {
		return err
	}
	notification := &models.Notification{
		UserID:  userID,
		Type:    repositories.NotificationTypeRankingReward,
		Title:   "Challenge reward received",
		Message: fmt.Sprintf("You received %d points in '%s'", amount, chatRoomTitle),
		Data:    datatypes.JSON(data),
	}
	if err := f.CreateNotification(notification); err != nil {
		return err
	}
	return f.CreateNotificationRead(&models.NotificationRead{
		NotificationID: notification.ID,
		UserID:         userID,
	})
}
