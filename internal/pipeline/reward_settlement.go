package pipeline

import (
	"context"
	"fmt"
	"time"

	"spendwise_backend/internal/logger"
	"spendwise_backend/internal/models"
	"spendwise_backend/internal/repositories"
)

const (
	firstPlaceBonus  = 5
	topFiveBonus     = 2
	fullAchieveBonus = 5
	highAchieveBonus = 2

	highAchieveThreshold = 70
	maxRewardedRank      = 3
)

// rankRewards maps intra-group rank to the tiered rank reward.
var rankRewards = map[int]int{1: 10, 2: 5, 3: 3}

// RewardSettlement converts room rankings and achievement rates into reward
// credits: every rewarded member gets the room's group bonus plus the tiered
// reward for their intra-group rank. Must run last.
type RewardSettlement struct {
	store repositories.Store
}

func NewRewardSettlement(store repositories.Store) *RewardSettlement {
	return &RewardSettlement{store: store}
}

func (s *RewardSettlement) Name() string { return "reward_settlement" }

// Run settles every room, one transaction per room. A room referencing a
// missing user rolls back alone; the remaining rooms still settle, and the
// stage reports how many failed.
func (s *RewardSettlement) Run(ctx context.Context, day time.Time) error {
	rooms, err := s.store.ChatRooms().FindAll()
	if err != nil {
		return fmt.Errorf("list chat rooms: %w", err)
	}

	failed := 0
	for i := range rooms {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.store.Transaction(func(tx repositories.Store) error {
			return s.settleRoom(tx, &rooms[i], day)
		})
		if err != nil {
			failed++
			logger.Error("room settlement failed",
				"chat_room_id", rooms[i].ID,
				"day", day.Format("2006-01-02"),
				"error", err,
			)
		}
	}

	if failed > 0 {
		return fmt.Errorf("settlement failed for %d of %d rooms", failed, len(rooms))
	}
	return nil
}

func (s *RewardSettlement) settleRoom(tx repositories.Store, room *models.ChatRoom, day time.Time) error {
	rate := percentOf(float64(room.AchievedCount), float64(room.ParticipationCount))
	bonus := GroupBonus(room.RankPosition, rate)

	memberships, err := tx.ChatRooms().FindMembershipsOrderedByScore(room.ID)
	if err != nil {
		return err
	}

	for _, grant := range RankRewards(memberships) {
		if err := s.grantReward(tx, room, grant.Membership, bonus+grant.Reward, day); err != nil {
			return err
		}
	}
	return nil
}

func (s *RewardSettlement) grantReward(tx repositories.Store, room *models.ChatRoom, membership models.ChatRoomMembership, amount int, day time.Time) error {
	exists, err := tx.Rewards().ExistsForSettlement(membership.UserID, room.ID, day)
	if err != nil {
		return err
	}
	if exists {
		// Already settled for this day; a replayed run must not double-credit.
		return nil
	}

	if err := tx.Users().CreditRewardBalance(membership.UserID, amount); err != nil {
		return fmt.Errorf("credit user %s from membership %s: %w", membership.UserID, membership.ID, err)
	}

	reward := &models.Reward{
		UserID:        membership.UserID,
		ChatRoomID:    room.ID,
		Amount:        amount,
		Reason:        models.RewardReasonRanking,
		Description:   fmt.Sprintf("Challenge ranking reward for '%s'", room.Title),
		SettlementDay: day,
	}
	if err := tx.Rewards().Create(reward); err != nil {
		return err
	}

	return tx.Notifications().CreateRankingRewardNotification(membership.UserID, room.ID, room.Title, amount)
}

// GroupBonus converts the room's 1-based cohort position and achievement
// rate into the flat bonus every rewarded member receives. The absolute
// position is used for the thresholds, not the percentile. A room without a
// position (empty cohort) earns no position bonus.
func GroupBonus(position *int, achievementRate float64) int {
	bonus := 0

	switch {
	case position == nil:
	case *position == 1:
		bonus += firstPlaceBonus
	case *position <= 5:
		bonus += topFiveBonus
	}

	switch {
	case achievementRate == 100:
		bonus += fullAchieveBonus
	case achievementRate >= highAchieveThreshold:
		bonus += highAchieveBonus
	}

	return bonus
}

type RankGrant struct {
	Membership models.ChatRoomMembership
	Reward     int
}

// RankRewards assigns the tiered intra-group rewards. memberships must be
// ordered by score descending; unscored members are skipped. Members with
// exactly equal scores form one tie group sharing the same rank and reward,
// and the running rank advances by the size of the group. Processing stops
// once the running rank passes third place, so members beyond it receive
// nothing at all.
func RankRewards(memberships []models.ChatRoomMembership) []RankGrant {
	scored := make([]models.ChatRoomMembership, 0, len(memberships))
	for _, m := range memberships {
		if m.UserScore.Valid {
			scored = append(scored, m)
		}
	}

	var grants []RankGrant
	rank := 1
	for i := 0; i < len(scored) && rank <= maxRewardedRank; {
		j := i
		for j < len(scored) && scored[j].UserScore.Decimal.Equal(scored[i].UserScore.Decimal) {
			j++
		}

		reward := rankRewards[rank]
		for _, m := range scored[i:j] {
			grants = append(grants, RankGrant{Membership: m, Reward: reward})
		}

		rank += j - i
		i = j
	}
	return grants
}
