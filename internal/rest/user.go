package rest

import (
	"context"
	"time"

	"groceryMarket/domain"
	"groceryMarket/internal/middleware"
	"groceryMarket/pkg/logger"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetAllUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
}

type UserHandler struct {
	userService UserService
	timeout     time.Duration
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		timeout:     10 * time.Second,
	}
}

func (h *UserHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.userService.GetUserByID(ctx, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, u)
}

func (h *UserHandler) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	users, err := h.userService.GetAllUsers(ctx, domain.UserFilter{Role: c.QueryParam("role")})
	if err != nil {
		logger.Error("Failed to find all users", err)
		return writeError(c, err)
	}

	return ok(c, users)
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.userService.GetUserByID(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, u)
}
