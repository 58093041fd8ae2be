package rest

import (
	"context"
	"net/http"
	"time"

	"groceryMarket/business/product"
	"groceryMarket/domain"
	"groceryMarket/internal/middleware"
	"groceryMarket/pkg/logger"
	jsonres "groceryMarket/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, vendorUserID string, in product.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, vendorUserID, id string, in product.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, vendorUserID, id string) error
}

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type ProductRequest struct {
	CategoryID    *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price" validate:"gte=0"`
	Unit          string  `json:"unit,omitempty"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	IsOrganic     bool    `json:"is_organic"`
	IsFeatured    bool    `json:"is_featured"`
	ImageURL      string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

func (r ProductRequest) input() product.ProductInput {
	return product.ProductInput{
		CategoryID:    r.CategoryID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Unit:          r.Unit,
		StockQuantity: r.StockQuantity,
		IsOrganic:     r.IsOrganic,
		IsFeatured:    r.IsFeatured,
		ImageURL:      r.ImageURL,
	}
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	filter := domain.ProductFilter{
		VendorID:   c.QueryParam("vendor_id"),
		CategoryID: c.QueryParam("category_id"),
		Featured:   queryBool(c, "featured"),
		Organic:    queryBool(c, "organic"),
		InStock:    queryBool(c, "in_stock"),
		Search:     c.QueryParam("q"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetAllProducts(ctx, filter)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return writeError(c, err)
	}

	return ok(c, products)
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	p, err := h.productService.GetProductByID(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, p)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return badRequest(c, "Invalid product data", err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	p, err := h.productService.CreateProduct(ctx, middleware.UserID(c), req.input())
	if err != nil {
		logger.Error("Failed to create product", err)
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, jsonres.Success(p))
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return badRequest(c, "Invalid product data", err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	p, err := h.productService.UpdateProduct(ctx, middleware.UserID(c), c.Param("id"), req.input())
	if err != nil {
		logger.Error("Failed to update product", err, "product_id", c.Param("id"))
		return writeError(c, err)
	}

	return ok(c, p)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, middleware.UserID(c), c.Param("id")); err != nil {
		logger.Error("Failed to delete product", err, "product_id", c.Param("id"))
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) bind(c echo.Context) (ProductRequest, error) {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return req, err
	}
	return req, h.validator.Struct(&req)
}
