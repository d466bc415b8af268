package repositories

import (
	"time"

	"spendwise_backend/internal/models"

	"gorm.io/gorm"
)

type ExpenseRepository interface {
	// SumAmountByDay returns the user's total spend for one day.
	SumAmountByDay(userID string, day time.Time) (int64, error)
	CountNoSpendingByDay(userID string, day time.Time) (int64, error)
	// CountDistinctCategoriesByDay counts the categories the user logged at
	// least one expense against on the given day.
	CountDistinctCategoriesByDay(userID string, day time.Time) (int64, error)
}

type ExpenseRepositoryImpl struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &ExpenseRepositoryImpl{db: db}
}

func (r *ExpenseRepositoryImpl) SumAmountByDay(userID string, day time.Time) (int64, error) {
	var sum int64
	err := r.db.Model(&models.Expense{}).
		Where("user_id = ? AND day = ?", userID, day).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *ExpenseRepositoryImpl) CountNoSpendingByDay(userID string, day time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Expense{}).
		Where("user_id = ? AND day = ? AND is_no_spending = ?", userID, day, true).
		Count(&count).Error
	return count, err
}

func (r *ExpenseRepositoryImpl) CountDistinctCategoriesByDay(userID string, day time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Expense{}).
		Where("user_id = ? AND day = ?", userID, day).
		Distinct("category_id").
		Count(&count).Error
	return count, err
}
