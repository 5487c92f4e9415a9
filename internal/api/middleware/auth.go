package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/greenhouse/plants-api/internal/core/domain"
	"github.com/greenhouse/plants-api/internal/core/ports"
	"github.com/greenhouse/plants-api/pkg/metrics"
)

const claimsKey = "claims"

// Auth validates the bearer token and injects its claims into the context.
// A missing header, a non-bearer scheme or an empty token are all reported as
// a missing token.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := verifier.Verify(bearerToken(c.Request()))
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(verificationResult(err)).Inc()
				return tokenError(err)
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFromContext returns the claims stored by Auth.
func ClaimsFromContext(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func verificationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "missing"
	case errors.Is(err, domain.ErrExpiredToken):
		return "expired"
	default:
		return "malformed"
	}
}

// tokenError keeps the domain error as Internal so the central error handler
// and echo's default handler agree on the status.
func tokenError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return &echo.HTTPError{Code: http.StatusUnauthorized, Message: domain.ErrMissingToken.Error(), Internal: err}
	case errors.Is(err, domain.ErrExpiredToken):
		return &echo.HTTPError{Code: http.StatusUnauthorized, Message: domain.ErrExpiredToken.Error(), Internal: err}
	default:
		return &echo.HTTPError{Code: http.StatusUnprocessableEntity, Message: domain.ErrMalformedToken.Error(), Internal: err}
	}
}
