package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kimobot/backend/internal/domain"
)

type ExpenseRepository interface {
	Save(ctx context.Context, expense *domain.Expense) error
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) ([]domain.Expense, error)
	TotalExpensesByUserAndDate(ctx context.Context, userID string, date time.Time) (float64, error)
	TotalFuelExpensesByUserAndDate(ctx context.Context, userID string, date time.Time) (float64, error)
}

type gormExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &gormExpenseRepository{db: db}
}

func (r *gormExpenseRepository) Save(ctx context.Context, expense *domain.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *gormExpenseRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) ([]domain.Expense, error) {
	start, end := dayRange(date)
	var expenses []domain.Expense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Find(&expenses).Error
	return expenses, err
}

func (r *gormExpenseRepository) TotalExpensesByUserAndDate(ctx context.Context, userID string, date time.Time) (float64, error) {
	start, end := dayRange(date)
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Scan(&total).Error
	return total, err
}

func (r *gormExpenseRepository) TotalFuelExpensesByUserAndDate(ctx context.Context, userID string, date time.Time) (float64, error) {
	start, end := dayRange(date)
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, domain.ExpenseFuel, start, end).
		Scan(&total).Error
	return total, err
}
