package pipeline

import (
	"context"
	"fmt"
	"time"

	"spendwise_backend/internal/models"
	"spendwise_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// UserScorer computes each user's behavior score for the scored day and
// replicates it to every chat room membership the user holds.
type UserScorer struct {
	store    repositories.Store
	pageSize int
}

func NewUserScorer(store repositories.Store, pageSize int) *UserScorer {
	return &UserScorer{store: store, pageSize: pageSize}
}

func (s *UserScorer) Name() string { return "user_scorer" }

func (s *UserScorer) Run(ctx context.Context, day time.Time) error {
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		users, err := s.store.Users().FindPageWithMemberships(s.pageSize, offset)
		if err != nil {
			return fmt.Errorf("list users page at offset %d: %w", offset, err)
		}
		if len(users) == 0 {
			return nil
		}

		err = s.store.Transaction(func(tx repositories.Store) error {
			for i := range users {
				if err := s.scoreUser(tx, &users[i], day); err != nil {
					return fmt.Errorf("score user %s: %w", users[i].ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		if len(users) < s.pageSize {
			return nil
		}
		offset += s.pageSize
	}
}

func (s *UserScorer) scoreUser(tx repositories.Store, user *models.User, day time.Time) error {
	// No memberships means nowhere to persist the score; not an error.
	if len(user.Memberships) == 0 {
		return nil
	}

	totalExpenditure, err := tx.Expenses().SumAmountByDay(user.ID, day)
	if err != nil {
		return err
	}
	noSpendingCount, err := tx.Expenses().CountNoSpendingByDay(user.ID, day)
	if err != nil {
		return err
	}
	filledCategories, err := tx.Expenses().CountDistinctCategoriesByDay(user.ID, day)
	if err != nil {
		return err
	}
	totalCategories, err := tx.Users().CountCategories(user.ID)
	if err != nil {
		return err
	}

	score := DailyScore(user.DayTargetExpenditure, totalExpenditure, noSpendingCount, filledCategories, totalCategories)
	value := decimal.NewFromFloat(score).Round(4)

	for _, membership := range user.Memberships {
		if err := tx.ChatRooms().UpdateMembershipScore(membership.ID, value); err != nil {
			return err
		}
	}
	return nil
}

// DailyScore computes one user's behavior score for a day:
//   - 50% budget discipline: how far total spend stayed under the daily
//     target (negative when overspent);
//   - 30% no-spending entries relative to the user's category count;
//   - 20% category coverage: distinct categories with at least one entry.
//
// A term contributes 0 when its precondition fails (no target set, or the
// user has no categories).
func DailyScore(dayTarget *int, totalExpenditure, noSpendingCount, filledCategories, totalCategories int64) float64 {
	score := 0.0

	if dayTarget != nil && *dayTarget > 0 {
		score += 0.5 * (100 - percentOf(float64(totalExpenditure), float64(*dayTarget)))
	}
	if totalCategories > 0 {
		score += 0.3 * percentOf(float64(noSpendingCount), float64(totalCategories))
		score += 0.2 * percentOf(float64(filledCategories), float64(totalCategories))
	}

	return score
}
