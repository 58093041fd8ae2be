package rest

import (
	"context"
	"time"

	"groceryMarket/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type LoyaltyService interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Earn(ctx context.Context, userID, event string) (int64, error)
	Redeem(ctx context.Context, userID string, points int64) (bool, int64, error)
}

type LoyaltyHandler struct {
	loyaltyService LoyaltyService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewLoyaltyHandler(loyaltyService LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyService: loyaltyService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type EarnRequest struct {
	Event string `json:"event" validate:"required"`
}

type RedeemRequest struct {
	Points int64 `json:"points" validate:"required,gt=0"`
}

func (h *LoyaltyHandler) Balance(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	balance, err := h.loyaltyService.Balance(ctx, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, map[string]interface{}{"balance": balance})
}

func (h *LoyaltyHandler) Earn(c echo.Context) error {
	var req EarnRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "event is required", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	balance, err := h.loyaltyService.Earn(ctx, middleware.UserID(c), req.Event)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, map[string]interface{}{"balance": balance})
}

// Redeem answers 200 either way; ok is false when the balance was too low.
func (h *LoyaltyHandler) Redeem(c echo.Context) error {
	var req RedeemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "points must be positive", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	redeemed, balance, err := h.loyaltyService.Redeem(ctx, middleware.UserID(c), req.Points)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, map[string]interface{}{"ok": redeemed, "balance": balance})
}
