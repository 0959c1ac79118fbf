package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kimobot/backend/internal/domain"
)

type TripRepository interface {
	Save(ctx context.Context, trip *domain.Trip) error
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) ([]domain.Trip, error)
	TotalEarningsByUserAndDate(ctx context.Context, userID string, date time.Time) (float64, error)
	TotalKmByUserAndDate(ctx context.Context, userID string, date time.Time) (float64, error)
}

type gormTripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &gormTripRepository{db: db}
}

func (r *gormTripRepository) Save(ctx context.Context, trip *domain.Trip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

func (r *gormTripRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) ([]domain.Trip, error) {
	start, end := dayRange(date)
	var trips []domain.Trip
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Find(&trips).Error
	return trips, err
}

func (r *gormTripRepository) TotalEarningsByUserAndDate(ctx context.Context, userID string, date time.Time) (float64, error) {
	start, end := dayRange(date)
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Trip{}).
		Select("COALESCE(SUM(earnings), 0)").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Scan(&total).Error
	return total, err
}

func (r *gormTripRepository) TotalKmByUserAndDate(ctx context.Context, userID string, date time.Time) (float64, error) {
	start, end := dayRange(date)
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Trip{}).
		Select("COALESCE(SUM(km), 0)").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Scan(&total).Error
	return total, err
}
