package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kimobot/backend/internal/domain"
)

type FixedCostRepository interface {
	Save(ctx context.Context, cost *domain.FixedCost) error
	Update(ctx context.Context, cost *domain.FixedCost) error
	FindActiveByUserID(ctx context.Context, userID string) ([]domain.FixedCost, error)
	FindAllByUserID(ctx context.Context, userID string) ([]domain.FixedCost, error)
}

type gormFixedCostRepository struct {
	db *gorm.DB
}

func NewFixedCostRepository(db *gorm.DB) FixedCostRepository {
	return &gormFixedCostRepository{db: db}
}

func (r *gormFixedCostRepository) Save(ctx context.Context, cost *domain.FixedCost) error {
	return r.db.WithContext(ctx).Create(cost).Error
}

func (r *gormFixedCostRepository) Update(ctx context.Context, cost *domain.FixedCost) error {
	return r.db.WithContext(ctx).Save(cost).Error
}

func (r *gormFixedCostRepository) FindActiveByUserID(ctx context.Context, userID string) ([]domain.FixedCost, error) {
	var costs []domain.FixedCost
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = true", userID).
		Find(&costs).Error
	return costs, err
}

func (r *gormFixedCostRepository) FindAllByUserID(ctx context.Context, userID string) ([]domain.FixedCost, error) {
	var costs []domain.FixedCost
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&costs).Error
	return costs, err
}
