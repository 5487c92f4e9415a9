package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/greenhouse/plants-api/internal/core/domain"
)

func runRBAC(t *testing.T, claims *domain.Claims, allowed ...string) (int, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(claimsKey, claims)
	}

	called := false
	handler := RBAC(allowed...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code, called
}

func TestRBAC_Decisions(t *testing.T) {
	tests := []struct {
		name    string
		held    []string
		allowed []string
		want    int
	}{
		{"exact match", []string{"admin"}, []string{"admin"}, http.StatusOK},
		{"one of several", []string{"client", "manager"}, []string{"manager", "admin"}, http.StatusOK},
		{"no overlap", []string{"client"}, []string{"admin"}, http.StatusForbidden},
		{"no roles held", nil, []string{"admin"}, http.StatusForbidden},
		{"case sensitive", []string{"Admin"}, []string{"admin"}, http.StatusForbidden},
		{"no inheritance", []string{"admin"}, []string{"manager"}, http.StatusForbidden},
		{"empty allowed set", nil, nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, called := runRBAC(t, &domain.Claims{Subject: "alice", Roles: tt.held}, tt.allowed...)
			if code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, code)
			}
			if called != (tt.want == http.StatusOK) {
				t.Fatalf("next called=%v for status %d", called, code)
			}
		})
	}
}

func TestRBAC_WithoutClaims(t *testing.T) {
	code, called := runRBAC(t, nil, "admin")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if called {
		t.Fatalf("next handler must not run without claims")
	}
}

func TestRequire_ComposesAuthAndRBAC(t *testing.T) {
	tokens := newTokens(time.Now())

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"admin allowed", "Bearer " + issue(t, tokens, "admin", "admin"), http.StatusOK},
		{"client forbidden", "Bearer " + issue(t, tokens, "client", "client"), http.StatusForbidden},
		{"no token", "", http.StatusUnauthorized},
		{"garbled", "Bearer abc.def.ghi", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := Require(tokens, domain.RoleAdmin)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
