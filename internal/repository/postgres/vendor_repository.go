package postgres

import (
	"context"
	"errors"
	"fmt"

	"groceryMarket/domain"

	"gorm.io/gorm"
)

type VendorRepository struct {
	DB *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{
		DB: db,
	}
}

func (r *VendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	if err := r.DB.WithContext(ctx).Create(vendor).Error; err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}

	return nil
}

func (r *VendorRepository) FindAll(ctx context.Context, filter domain.VendorFilter) ([]domain.Vendor, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Order("rating DESC")
	if filter.City != "" {
		q = q.Where("city = ?", filter.City)
	}
	if filter.OnlineOnly {
		q = q.Where("is_online = ?", true)
	}
	if filter.MinRating > 0 {
		q = q.Where("rating >= ?", filter.MinRating)
	}

	var vendors []domain.Vendor
	if err := q.Find(&vendors).Error; err != nil {
		return nil, fmt.Errorf("failed to find vendors: %w", err)
	}

	return vendors, nil
}

// FindByID loads the vendor together with its product list.
func (r *VendorRepository) FindByID(ctx context.Context, id string) (domain.Vendor, error) {
	var vendor domain.Vendor

	err := r.DB.WithContext(ctx).Preload("Products").Where("id = ?", id).First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Vendor{}, fmt.Errorf("vendor %w", domain.ErrNotFound)
		}
		return domain.Vendor{}, fmt.Errorf("failed to find vendor: %w", err)
	}

	return vendor, nil
}

func (r *VendorRepository) FindByUserID(ctx context.Context, userID string) (domain.Vendor, error) {
	var vendor domain.Vendor

	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Vendor{}, fmt.Errorf("vendor %w", domain.ErrNotFound)
		}
		return domain.Vendor{}, fmt.Errorf("failed to find vendor: %w", err)
	}

	return vendor, nil
}

func (r *VendorRepository) UpdateOnline(ctx context.Context, id string, online bool) error {
	result := r.DB.WithContext(ctx).Model(&domain.Vendor{}).Where("id = ?", id).Update("is_online", online)
	if result.Error != nil {
		return fmt.Errorf("failed to update vendor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("vendor %w", domain.ErrNotFound)
	}

	return nil
}
