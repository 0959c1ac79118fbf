package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kimobot/backend/internal/domain"
)

type PendingTripRepository interface {
	Save(ctx context.Context, trip *domain.PendingTrip) error
	Update(ctx context.Context, trip *domain.PendingTrip) error
	FindLatestPendingByUserID(ctx context.Context, userID string) (*domain.PendingTrip, error)
	// FindPendingForReminders devolve avaliações sem lembrete cujo tempo
	// decorrido já passou da duração estimada.
	FindPendingForReminders(ctx context.Context) ([]domain.PendingTrip, error)
	DeleteOldCompleted(ctx context.Context, olderThanDays int) (int64, error)
}

type gormPendingTripRepository struct {
	db *gorm.DB
}

func NewPendingTripRepository(db *gorm.DB) PendingTripRepository {
	return &gormPendingTripRepository{db: db}
}

func (r *gormPendingTripRepository) Save(ctx context.Context, trip *domain.PendingTrip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

func (r *gormPendingTripRepository) Update(ctx context.Context, trip *domain.PendingTrip) error {
	return r.db.WithContext(ctx).Save(trip).Error
}

func (r *gormPendingTripRepository) FindLatestPendingByUserID(ctx context.Context, userID string) (*domain.PendingTrip, error) {
	var trip domain.PendingTrip
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID,
			[]domain.PendingTripStatus{domain.PendingTripPending, domain.PendingTripInProgress}).
		Order("evaluated_at DESC").
		First(&trip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *gormPendingTripRepository) FindPendingForReminders(ctx context.Context) ([]domain.PendingTrip, error) {
	var trips []domain.PendingTrip
	err := r.db.WithContext(ctx).
		Where("status IN ? AND reminder_sent_at IS NULL",
			[]domain.PendingTripStatus{domain.PendingTripPending, domain.PendingTripInProgress}).
		Where("evaluated_at <= NOW() - (estimated_duration * INTERVAL '1 minute')").
		Find(&trips).Error
	return trips, err
}

func (r *gormPendingTripRepository) DeleteOldCompleted(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	res := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?",
			[]domain.PendingTripStatus{domain.PendingTripCompleted, domain.PendingTripCancelled}, cutoff).
		Delete(&domain.PendingTrip{})
	return res.RowsAffected, res.Error
}
