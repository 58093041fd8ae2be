package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"groceryMarket/business/user"
	"groceryMarket/domain"
	"groceryMarket/internal/middleware"
	"groceryMarket/pkg/logger"
	jsonres "groceryMarket/pkg/response"
	"groceryMarket/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const demoCookieMaxAge = 3600

type AuthService interface {
	Register(ctx context.Context, in user.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (user.LoginResult, error)
	Logout(ctx context.Context, token string) error
	GetUserRole(ctx context.Context, id string) (string, error)
}

type AuthHandler struct {
	authService   AuthService
	cookieKey     string
	secureCookies bool
	validator     *validator.Validate
	timeout       time.Duration
}

func NewAuthHandler(authService AuthService, cookieKey string, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		cookieKey:     cookieKey,
		secureCookies: secureCookies,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role" validate:"required,oneof=customer vendor rider"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register answers 200 {success, user}, 400 for a bad payload and 500 when a
// downstream write fails.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate registration", err)
		return badRequest(c, "Invalid registration data", err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	registered, err := h.authService.Register(ctx, user.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
		Address:  req.Address,
		City:     req.City,
		Country:  req.Country,
	})
	if err != nil {
		status, code := statusFor(err)
		if status == http.StatusConflict {
			status = http.StatusBadRequest
		}
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to register user", err)
			return c.JSON(status, jsonres.Error(code, "Registration failed", nil))
		}
		return c.JSON(status, jsonres.Error(code, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    registered,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return badRequest(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate login", err)
		return badRequest(c, "Invalid login data", err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	if result.Demo {
		sealed, err := utils.SealExpiring(result.User.Email, h.cookieKey, time.Now().Add(demoCookieMaxAge*time.Second))
		if err != nil {
			logger.Error("Failed to seal demo cookie", err)
			return writeError(c, err)
		}
		c.SetCookie(h.cookie(middleware.DemoUserCookie, sealed, demoCookieMaxAge))
		c.SetCookie(h.cookie(middleware.DemoRoleCookie, result.Role, demoCookieMaxAge))
	}

	return ok(c, result)
}

// Logout clears demo cookies and revokes the bearer token if one is sent.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.cookie(middleware.DemoUserCookie, "", -1))
	c.SetCookie(h.cookie(middleware.DemoRoleCookie, "", -1))

	token := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
	if token != "" && token != c.Request().Header.Get("Authorization") {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		defer cancel()

		if err := h.authService.Logout(ctx, token); err != nil {
			return writeError(c, err)
		}
	}

	return ok(c, map[string]interface{}{"logged_out": true})
}

// Session reports who the caller is and where their dashboard lives.
func (h *AuthHandler) Session(c echo.Context) error {
	role := middleware.Role(c)

	if !middleware.IsDemo(c) {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		defer cancel()

		stored, err := h.authService.GetUserRole(ctx, middleware.UserID(c))
		if err != nil {
			return writeError(c, err)
		}
		role = stored
	}

	return ok(c, map[string]interface{}{
		"user_id":  middleware.UserID(c),
		"email":    middleware.Email(c),
		"role":     role,
		"redirect": user.RedirectFor(role),
		"demo":     middleware.IsDemo(c),
	})
}

func (h *AuthHandler) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
