package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"groceryMarket/domain"

	"gorm.io/gorm"
)

type DeliveryRepository struct {
	DB *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{
		DB: db,
	}
}

func (r *DeliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	if err := r.DB.WithContext(ctx).Create(delivery).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("delivery for order %w", domain.ErrConflict)
		}
		return fmt.Errorf("failed to create delivery: %w", err)
	}

	return nil
}

func (r *DeliveryRepository) FindByID(ctx context.Context, id string) (domain.Delivery, error) {
	var delivery domain.Delivery

	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&delivery).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Delivery{}, fmt.Errorf("delivery %w", domain.ErrNotFound)
		}
		return domain.Delivery{}, fmt.Errorf("failed to find delivery: %w", err)
	}

	return delivery, nil
}

func (r *DeliveryRepository) FindByOrderID(ctx context.Context, orderID string) (domain.Delivery, error) {
	var delivery domain.Delivery

	err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).First(&delivery).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Delivery{}, fmt.Errorf("delivery %w", domain.ErrNotFound)
		}
		return domain.Delivery{}, fmt.Errorf("failed to find delivery: %w", err)
	}

	return delivery, nil
}

func (r *DeliveryRepository) FindByRider(ctx context.Context, riderID string) ([]domain.Delivery, error) {
	var deliveries []domain.Delivery

	err := r.DB.WithContext(ctx).Where("rider_id = ?", riderID).Order("started_at DESC").Find(&deliveries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find deliveries: %w", err)
	}

	return deliveries, nil
}

// UpdateStatus overwrites the status and, when given, the delivered timestamp.
func (r *DeliveryRepository) UpdateStatus(ctx context.Context, id, status string, deliveredAt *time.Time) error {
	updateData := map[string]interface{}{
		"status": status,
	}
	if deliveredAt != nil {
		updateData["delivered_at"] = *deliveredAt
	}

	result := r.DB.WithContext(ctx).Model(&domain.Delivery{}).Where("id = ?", id).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update delivery: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delivery %w", domain.ErrNotFound)
	}

	return nil
}
