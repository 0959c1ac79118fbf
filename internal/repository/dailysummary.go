package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kimobot/backend/internal/domain"
)

type DailySummaryRepository interface {
	// Upsert com chave natural (usuário, dia): idempotente.
	Upsert(ctx context.Context, summary *domain.DailySummary) error
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DailySummary, error)
	FindByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]domain.DailySummary, error)
	TotalProfitByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) (float64, error)
}

type gormDailySummaryRepository struct {
	db *gorm.DB
}

func NewDailySummaryRepository(db *gorm.DB) DailySummaryRepository {
	return &gormDailySummaryRepository{db: db}
}

func (r *gormDailySummaryRepository) Upsert(ctx context.Context, summary *domain.DailySummary) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"earnings", "expenses", "km", "profit", "cost_per_km", "updated_at",
		}),
	}).Create(summary).Error
}

func (r *gormDailySummaryRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DailySummary, error) {
	var summary domain.DailySummary
	err := r.db.WithContext(ctx).
		First(&summary, "user_id = ? AND date = ?", userID, domain.DayOf(date)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *gormDailySummaryRepository) FindByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]domain.DailySummary, error) {
	var summaries []domain.DailySummary
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, domain.DayOf(start), domain.DayOf(end)).
		Order("date ASC").
		Find(&summaries).Error
	return summaries, err
}

func (r *gormDailySummaryRepository) TotalProfitByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.DailySummary{}).
		Select("COALESCE(SUM(profit), 0)").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, domain.DayOf(start), domain.DayOf(end)).
		Scan(&total).Error
	return total, err
}
