package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kimobot/backend/internal/domain"
)

type DriverConfigRepository interface {
	Save(ctx context.Context, config *domain.DriverConfig) error
	Update(ctx context.Context, config *domain.DriverConfig) error
	FindByUserID(ctx context.Context, userID string) (*domain.DriverConfig, error)
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
}

type gormDriverConfigRepository struct {
	db *gorm.DB
}

func NewDriverConfigRepository(db *gorm.DB) DriverConfigRepository {
	return &gormDriverConfigRepository{db: db}
}

func (r *gormDriverConfigRepository) Save(ctx context.Context, config *domain.DriverConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

func (r *gormDriverConfigRepository) Update(ctx context.Context, config *domain.DriverConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

func (r *gormDriverConfigRepository) FindByUserID(ctx context.Context, userID string) (*domain.DriverConfig, error) {
	var config domain.DriverConfig
	err := r.db.WithContext(ctx).First(&config, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *gormDriverConfigRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.DriverConfig{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}
