package postgres

import (
	"context"
	"errors"
	"fmt"

	"groceryMarket/domain"

	"gorm.io/gorm"
)

type RiderRepository struct {
	DB *gorm.DB
}

func NewRiderRepository(db *gorm.DB) *RiderRepository {
	return &RiderRepository{
		DB: db,
	}
}

func (r *RiderRepository) Create(ctx context.Context, rider *domain.RiderProfile) error {
	if err := r.DB.WithContext(ctx).Create(rider).Error; err != nil {
		return fmt.Errorf("failed to create rider profile: %w", err)
	}

	return nil
}

func (r *RiderRepository) FindByUserID(ctx context.Context, userID string) (domain.RiderProfile, error) {
	var rider domain.RiderProfile

	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&rider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RiderProfile{}, fmt.Errorf("rider profile %w", domain.ErrNotFound)
		}
		return domain.RiderProfile{}, fmt.Errorf("failed to find rider profile: %w", err)
	}

	return rider, nil
}
