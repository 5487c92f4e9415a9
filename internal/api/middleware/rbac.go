package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenhouse/plants-api/internal/core/domain"
	"github.com/greenhouse/plants-api/internal/core/ports"
	"github.com/greenhouse/plants-api/pkg/metrics"
)

// RBAC enforces role-based access control. The identity is admitted when it
// holds at least one of allowedRoles; no roles means any authenticated caller.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := domain.NewRoleSet(allowedRoles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c)
			if !ok {
				return &echo.HTTPError{
					Code:     http.StatusUnauthorized,
					Message:  domain.ErrMissingToken.Error(),
					Internal: domain.ErrMissingToken,
				}
			}

			if !claims.HasAnyRole(allowed) {
				metrics.AuthorizationDecisionsTotal.WithLabelValues("denied").Inc()
				return &echo.HTTPError{
					Code:     http.StatusForbidden,
					Message:  domain.ErrForbidden.Error(),
					Internal: domain.ErrForbidden,
				}
			}

			metrics.AuthorizationDecisionsTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}

// Require authenticates the request and then checks its roles. Routes declare
// their access rule with it, e.g. e.GET("/admin-only", h, Require(v, "admin")).
func Require(verifier ports.TokenVerifier, allowedRoles ...string) echo.MiddlewareFunc {
	auth := Auth(verifier)
	rbac := RBAC(allowedRoles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return auth(rbac(next))
	}
}
