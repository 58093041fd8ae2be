package rest

import (
	"context"
	"strconv"
	"time"

	"groceryMarket/domain"
	"groceryMarket/internal/middleware"
	"groceryMarket/pkg/logger"

	"github.com/labstack/echo/v4"
)

type VendorService interface {
	GetAllVendors(ctx context.Context, filter domain.VendorFilter) ([]domain.Vendor, error)
	GetVendorByID(ctx context.Context, id string) (domain.Vendor, error)
	GetVendorByUserID(ctx context.Context, userID string) (domain.Vendor, error)
	SetOnline(ctx context.Context, userID string, online bool) (domain.Vendor, error)
}

type VendorHandler struct {
	vendorService VendorService
	timeout       time.Duration
}

func NewVendorHandler(vendorService VendorService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
		timeout:       10 * time.Second,
	}
}

type VendorStatusRequest struct {
	IsOnline *bool `json:"is_online"`
}

func (h *VendorHandler) GetAllVendors(c echo.Context) error {
	filter := domain.VendorFilter{
		City:       c.QueryParam("city"),
		OnlineOnly: queryBool(c, "online"),
	}
	if raw := c.QueryParam("min_rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return badRequest(c, "invalid min_rating", nil)
		}
		filter.MinRating = rating
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	vendors, err := h.vendorService.GetAllVendors(ctx, filter)
	if err != nil {
		logger.Error("Failed to find all vendors", err)
		return writeError(c, err)
	}

	return ok(c, vendors)
}

func (h *VendorHandler) GetVendorByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	v, err := h.vendorService.GetVendorByID(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, v)
}

// MyStore returns the vendor profile owned by the caller.
func (h *VendorHandler) MyStore(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	v, err := h.vendorService.GetVendorByUserID(ctx, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, v)
}

func (h *VendorHandler) SetStatus(c echo.Context) error {
	var req VendorStatusRequest
	if err := c.Bind(&req); err != nil || req.IsOnline == nil {
		return badRequest(c, "is_online is required", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	v, err := h.vendorService.SetOnline(ctx, middleware.UserID(c), *req.IsOnline)
	if err != nil {
		logger.Error("Failed to update vendor status", err)
		return writeError(c, err)
	}

	return ok(c, v)
}
