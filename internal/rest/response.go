package rest

import (
	"errors"
	"net/http"
	"strconv"

	"groceryMarket/domain"
	"groceryMarket/pkg/logger"
	jsonres "groceryMarket/pkg/response"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain sentinels to HTTP. Everything else is a 500.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func writeError(c echo.Context, err error) error {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", err, "path", c.Path())
		return c.JSON(status, jsonres.Error(code, "Internal server error", nil))
	}
	return c.JSON(status, jsonres.Error(code, err.Error(), nil))
}

func badRequest(c echo.Context, message string, details interface{}) error {
	return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", message, details))
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, jsonres.Success(data))
}

func queryBool(c echo.Context, name string) bool {
	v, err := strconv.ParseBool(c.QueryParam(name))
	return err == nil && v
}
