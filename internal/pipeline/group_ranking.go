package pipeline

import (
	"context"
	"fmt"
	"time"

	"spendwise_backend/internal/models"
	"spendwise_backend/internal/repositories"
)

// GroupRanking computes per-room achievement statistics and the room's
// percentile rank within its demographic filter cohort. Must run after
// GroupAggregator so cohort selection sees fresh total scores.
type GroupRanking struct {
	store    repositories.Store
	pageSize int
}

func NewGroupRanking(store repositories.Store, pageSize int) *GroupRanking {
	return &GroupRanking{store: store, pageSize: pageSize}
}

func (g *GroupRanking) Name() string { return "group_ranking" }

func (g *GroupRanking) Run(ctx context.Context, day time.Time) error {
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rooms, err := g.store.ChatRooms().FindPage(g.pageSize, offset)
		if err != nil {
			return fmt.Errorf("list chat rooms page at offset %d: %w", offset, err)
		}
		if len(rooms) == 0 {
			return nil
		}

		err = g.store.Transaction(func(tx repositories.Store) error {
			for i := range rooms {
				if err := g.rankRoom(tx, &rooms[i], day); err != nil {
					return fmt.Errorf("rank room %s: %w", rooms[i].ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		if len(rooms) < g.pageSize {
			return nil
		}
		offset += g.pageSize
	}
}

func (g *GroupRanking) rankRoom(tx repositories.Store, room *models.ChatRoom, day time.Time) error {
	memberships, err := tx.ChatRooms().FindMembershipsOrderedByScore(room.ID)
	if err != nil {
		return err
	}

	var totalSpend int64
	achieved := 0
	for _, membership := range memberships {
		spend, err := tx.Expenses().SumAmountByDay(membership.UserID, day)
		if err != nil {
			return err
		}
		totalSpend += spend
		if spend <= int64(room.DailySpendingGoal) {
			achieved++
		}
	}

	averageExpense := int(safeDiv(totalSpend, int64(room.ParticipationCount)))

	cohort, err := g.cohortFor(tx, room)
	if err != nil {
		return err
	}
	ranking, position := CohortRank(room.ID, cohort)

	return tx.ChatRooms().UpdateStatistics(room.ID, achieved, averageExpense, ranking, position)
}

// cohortFor selects the room's comparison pool with filter precedence
// (age & job) > (age) > (job) > (all rooms). An axis set to NULL or
// "undecided" does not constrain the cohort.
func (g *GroupRanking) cohortFor(tx repositories.Store, room *models.ChatRoom) ([]models.ChatRoom, error) {
	var age *models.AgeGroup
	var job *models.JobType
	if room.HasAgeFilter() {
		age = room.AgeGroupFilter
	}
	if room.HasJobFilter() {
		job = room.JobFilter
	}
	return tx.ChatRooms().FindRankedByFilters(age, job)
}

// CohortRank returns the room's percentile and 1-based position within the
// cohort, which must be ordered by total score descending. The first entry
// matching the room ID wins the position, so tied rooms share whatever order
// the sort produced. A room absent from its own cohort (NULL total score)
// defaults to position 1. An empty cohort yields nil for both values.
func CohortRank(roomID string, cohort []models.ChatRoom) (ranking *float64, position *int) {
	if len(cohort) == 0 {
		return nil, nil
	}

	pos := 1
	for i := range cohort {
		if cohort[i].ID == roomID {
			pos = i + 1
			break
		}
	}

	pct := float64(pos) / float64(len(cohort)) * 100
	return &pct, &pos
}
