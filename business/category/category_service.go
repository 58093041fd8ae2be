package category

import (
	"context"
	"fmt"
	"strings"
	"time"

	"groceryMarket/domain"
	"groceryMarket/pkg/logger"

	"github.com/google/uuid"
)

// CategoryRepository contract interface
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id string) (domain.Category, error)
	FindAll(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error)
}

type categoryService struct {
	categoryRepo CategoryRepository
}

func NewCategoryService(categoryRepo CategoryRepository) *categoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
	}
}

func (s *categoryService) GetAllCategories(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all categories")
		return nil, fmt.Errorf("context error: %w", err)
	}

	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to find all categories", err)
		return nil, err
	}

	return categories, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id string) (domain.Category, error) {
	if id == "" {
		logger.Error("Invalid category id")
		return domain.Category{}, fmt.Errorf("%w: category id is required", domain.ErrInvalidInput)
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find category", err)
		return domain.Category{}, err
	}

	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, name, icon string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}

	category := domain.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Icon:      icon,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		logger.Error("Failed to create category", err)
		return domain.Category{}, err
	}

	return category, nil
}
