package rest

import (
	"context"
	"net/http"
	"time"

	"groceryMarket/domain"
	"groceryMarket/pkg/logger"
	jsonres "groceryMarket/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CategoryService interface {
	GetAllCategories(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, id string) (domain.Category, error)
	CreateCategory(ctx context.Context, name, icon string) (domain.Category, error)
}

type CategoryHandler struct {
	categoryService CategoryService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon,omitempty"`
}

func (h *CategoryHandler) GetAllCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	categories, err := h.categoryService.GetAllCategories(ctx, domain.CategoryFilter{
		ActiveOnly: queryBool(c, "active"),
	})
	if err != nil {
		logger.Error("Failed to find all categories", err)
		return writeError(c, err)
	}

	return ok(c, categories)
}

func (h *CategoryHandler) GetCategoryByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	category, err := h.categoryService.GetCategoryByID(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, category)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Invalid category data", err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	category, err := h.categoryService.CreateCategory(ctx, req.Name, req.Icon)
	if err != nil {
		logger.Error("Failed to create category", err)
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, jsonres.Success(category))
}
