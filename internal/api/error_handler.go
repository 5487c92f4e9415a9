package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/greenhouse/plants-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	if code, msg, ok := domainStatus(err); ok {
		return code, msg
	}

	// Echo's own errors (bind failures, 404 from router, rate limiter, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			if code, msg, ok := domainStatus(he.Internal); ok {
				return code, msg
			}
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// domainStatus maps known domain errors to deterministic HTTP codes.
func domainStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusUnauthorized, domain.ErrMissingToken.Error(), true
	case errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized, domain.ErrExpiredToken.Error(), true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error(), true
	case errors.Is(err, domain.ErrMalformedToken):
		return http.StatusUnprocessableEntity, domain.ErrMalformedToken.Error(), true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrForbidden.Error(), true
	case errors.Is(err, domain.ErrPlantNotFound):
		return http.StatusNotFound, domain.ErrPlantNotFound.Error(), true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, domain.ErrUserNotFound.Error(), true
	case errors.Is(err, domain.ErrInvalidPlantID):
		return http.StatusBadRequest, domain.ErrInvalidPlantID.Error(), true
	case errors.Is(err, domain.ErrInvalidPlant):
		return http.StatusBadRequest, domain.ErrInvalidPlant.Error(), true
	case errors.Is(err, domain.ErrEmptyUpdate):
		return http.StatusBadRequest, domain.ErrEmptyUpdate.Error(), true
	case errors.Is(err, domain.ErrInvalidUser):
		return http.StatusBadRequest, domain.ErrInvalidUser.Error(), true
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusBadRequest, domain.ErrPasswordTooLong.Error(), true
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, domain.ErrUserExists.Error(), true
	case errors.Is(err, domain.ErrStorage):
		return http.StatusServiceUnavailable, domain.ErrStorage.Error(), true
	}
	return 0, "", false
}
