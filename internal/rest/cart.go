package rest

import (
	"context"
	"time"

	"groceryMarket/business/cart"
	"groceryMarket/domain"
	"groceryMarket/internal/middleware"
	"groceryMarket/pkg/logger"

	"github.com/labstack/echo/v4"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (domain.Cart, error)
	Dispatch(ctx context.Context, userID string, action cart.Action) (domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type CartHandler struct {
	cartService CartService
	timeout     time.Duration
}

func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		timeout:     10 * time.Second,
	}
}

// cartView adds derived totals to the stored lines.
type cartView struct {
	domain.Cart
	Total   float64  `json:"total"`
	Count   int      `json:"count"`
	Vendors []string `json:"vendors"`
}

func viewOf(c domain.Cart) cartView {
	return cartView{Cart: c, Total: c.Total(), Count: c.Count(), Vendors: c.VendorIDs()}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	current, err := h.cartService.GetCart(ctx, middleware.UserID(c))
	if err != nil {
		logger.Error("Failed to load cart", err)
		return writeError(c, err)
	}

	return ok(c, viewOf(current))
}

func (h *CartHandler) Dispatch(c echo.Context) error {
	var action cart.Action
	if err := c.Bind(&action); err != nil {
		return badRequest(c, "Invalid request body", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	next, err := h.cartService.Dispatch(ctx, middleware.UserID(c), action)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, viewOf(next))
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cartService.ClearCart(ctx, middleware.UserID(c)); err != nil {
		logger.Error("Failed to clear cart", err)
		return writeError(c, err)
	}

	return ok(c, viewOf(domain.Cart{UserID: middleware.UserID(c), Items: []domain.CartItem{}}))
}
