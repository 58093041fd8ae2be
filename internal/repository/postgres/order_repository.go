package postgres

import (
	"context"
	"errors"
	"fmt"

	"groceryMarket/domain"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{
		DB: db,
	}
}

// Create inserts the order and its items.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *OrderRepository) FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	q := r.DB.WithContext(ctx).Preload("Items").Order("created_at DESC")

	if len(filter.IDs) > 0 {
		q = q.Where("id IN ?", filter.IDs)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.VendorID != "" {
		q = q.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var orders []domain.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	return orders, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	var order domain.Order

	err := r.DB.WithContext(ctx).
		Preload("Items").
		Preload("Vendor").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, fmt.Errorf("order %w", domain.ErrNotFound)
		}
		return domain.Order{}, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

// UpdateStatus overwrites the status column.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.DB.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %w", domain.ErrNotFound)
	}

	return nil
}
