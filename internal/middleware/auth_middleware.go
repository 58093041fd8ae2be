package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"groceryMarket/pkg/logger"
	jsonres "groceryMarket/pkg/response"
	"groceryMarket/pkg/utils"

	"github.com/labstack/echo/v4"
)

const (
	DemoUserCookie = "demo-user"
	DemoRoleCookie = "demo-role"

	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxEmail  = "email"
	ctxToken  = "token"
	ctxDemo   = "demo"
)

type TokenParser interface {
	ParseJWT(token string) (*utils.Claims, error)
}

// SessionValidator confirms an issued token has not been revoked.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (string, error)
}

// DemoVerifier maps a demo cookie pair to the demo account's user ID.
type DemoVerifier interface {
	VerifyDemo(email, role string) (string, bool)
}

type AuthConfig struct {
	Tokens    TokenParser
	Sessions  SessionValidator
	Demo      DemoVerifier
	CookieKey string
}

// AuthMiddleware accepts a bearer token, or the demo cookie pair when no
// Authorization header is sent. Websocket clients may pass the token as the
// access_token query parameter.
func AuthMiddleware(cfg AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if qt := c.QueryParam("access_token"); qt != "" {
					authHeader = "Bearer " + qt
				}
			}

			if authHeader == "" {
				if ok := demoSession(c, cfg); ok {
					return next(c)
				}
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing authorization header", nil,
				))
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid authorization format", nil,
				))
			}

			tokenString := tokenParts[1]

			claims, err := cfg.Tokens.ParseJWT(tokenString)
			if err != nil {
				logger.Debug("Rejected token", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			if cfg.Sessions != nil {
				ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
				defer cancel()

				userID, err := cfg.Sessions.ValidateSession(ctx, tokenString)
				if err != nil {
					logger.Debug("Session not found", err)
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Token expired or revoked", nil,
					))
				}
				if userID != claims.UserID {
					logger.Error("UserID mismatch between token and session")
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Invalid token", nil,
					))
				}
			}

			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxRole, claims.Role)
			c.Set(ctxEmail, claims.Email)
			c.Set(ctxToken, tokenString)

			return next(c)
		}
	}
}

func demoSession(c echo.Context, cfg AuthConfig) bool {
	if cfg.Demo == nil {
		return false
	}

	userCookie, err := c.Cookie(DemoUserCookie)
	if err != nil {
		return false
	}
	roleCookie, err := c.Cookie(DemoRoleCookie)
	if err != nil {
		return false
	}

	email, err := utils.OpenExpiring(userCookie.Value, cfg.CookieKey, time.Now())
	if err != nil {
		logger.Debug("Unreadable or expired demo cookie", err)
		return false
	}

	userID, ok := cfg.Demo.VerifyDemo(email, roleCookie.Value)
	if !ok {
		return false
	}

	c.Set(ctxUserID, userID)
	c.Set(ctxRole, roleCookie.Value)
	c.Set(ctxEmail, email)
	c.Set(ctxDemo, true)
	return true
}

func RoleRequired(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[Role(c)] {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Insufficient role for this resource", nil,
				))
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	v, _ := c.Get(ctxUserID).(string)
	return v
}

func Role(c echo.Context) string {
	v, _ := c.Get(ctxRole).(string)
	return v
}

func Email(c echo.Context) string {
	v, _ := c.Get(ctxEmail).(string)
	return v
}

func Token(c echo.Context) string {
	v, _ := c.Get(ctxToken).(string)
	return v
}

func IsDemo(c echo.Context) bool {
	v, _ := c.Get(ctxDemo).(bool)
	return v
}
