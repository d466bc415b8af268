package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"spendwise_backend/internal/models"
	"spendwise_backend/internal/repositories"
)

// GroupAggregator combines fresh member scores into a per-room total score.
// Rooms with fewer scored members than the minimum get a NULL total score,
// which keeps them out of every ranking cohort. Must run after UserScorer.
type GroupAggregator struct {
	store        repositories.Store
	pageSize     int
	minGroupSize int
}

func NewGroupAggregator(store repositories.Store, pageSize, minGroupSize int) *GroupAggregator {
	return &GroupAggregator{store: store, pageSize: pageSize, minGroupSize: minGroupSize}
}

func (a *GroupAggregator) Name() string { return "group_aggregator" }

func (a *GroupAggregator) Run(ctx context.Context, day time.Time) error {
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rooms, err := a.store.ChatRooms().FindPage(a.pageSize, offset)
		if err != nil {
			return fmt.Errorf("list chat rooms page at offset %d: %w", offset, err)
		}
		if len(rooms) == 0 {
			return nil
		}

		err = a.store.Transaction(func(tx repositories.Store) error {
			for i := range rooms {
				if err := a.aggregateRoom(tx, &rooms[i]); err != nil {
					return fmt.Errorf("aggregate room %s: %w", rooms[i].ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		if len(rooms) < a.pageSize {
			return nil
		}
		offset += a.pageSize
	}
}

func (a *GroupAggregator) aggregateRoom(tx repositories.Store, room *models.ChatRoom) error {
	memberships, err := tx.ChatRooms().FindMembershipsOrderedByScore(room.ID)
	if err != nil {
		return err
	}

	scores := make([]float64, 0, len(memberships))
	for _, membership := range memberships {
		if membership.UserScore.Valid {
			scores = append(scores, membership.UserScore.Decimal.InexactFloat64())
		}
	}

	if len(scores) < a.minGroupSize {
		return tx.ChatRooms().UpdateTotalScore(room.ID, nil)
	}

	total := GroupScore(scores)
	return tx.ChatRooms().UpdateTotalScore(room.ID, &total)
}

// GroupScore blends the mean member score (80%) with the average of the top
// decile (20%) and scales the blend logarithmically by group size. scores
// must be sorted descending. The top decile is rounded up, so at the
// five-member minimum the best member alone forms it; an empty prefix would
// contribute an average of 0.
func GroupScore(scores []float64) float64 {
	n := float64(len(scores))

	var sum float64
	for _, s := range scores {
		sum += s
	}

	topCount := int(math.Ceil(n * 0.1))
	var topAverage float64
	if topCount > 0 {
		var topSum float64
		for _, s := range scores[:topCount] {
			topSum += s
		}
		topAverage = topSum / float64(topCount)
	}

	return (sum/n*0.8 + topAverage*0.2) * math.Log(n+1)
}
