package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenhouse/plants-api/internal/api/middleware"
	"github.com/greenhouse/plants-api/internal/core/domain"
	"github.com/greenhouse/plants-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Index handles GET /.
//
// @Summary      Service banner
// @Tags         meta
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       / [get]
func (h *AuthHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "plants API ready, JWT auth with role control"})
}

// Login authenticates a user and returns a signed access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{AccessToken: token})
}

// Whoami echoes the verified identity and claims of the caller.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  whoamiResponse
// @Failure      401  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /whoami [get]
func (h *AuthHandler) Whoami(c echo.Context) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return domain.ErrMissingToken
	}

	return c.JSON(http.StatusOK, whoamiResponse{
		Message:  "valid token",
		Identity: claims.Subject,
		TokenClaims: tokenClaimsResponse{
			Subject:   claims.Subject,
			Roles:     rolesOrEmpty(claims.Roles),
			IssuedAt:  claims.IssuedAt.Unix(),
			ExpiresAt: claims.ExpiresAt.Unix(),
			TokenID:   claims.TokenID,
		},
	})
}

// AdminOnly handles GET /admin-only.
//
// @Summary      Admin area
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /admin-only [get]
func (h *AuthHandler) AdminOnly(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "admin area, access granted"})
}

// ManagerArea handles GET /manager-area.
//
// @Summary      Manager area
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /manager-area [get]
func (h *AuthHandler) ManagerArea(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "manager area, access granted"})
}

// CreateUser creates a new account with the given roles.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New account"
// @Success      201   {object}  createUserResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users [post]
func (h *AuthHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, err := h.authService.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createUserResponse{
		Message: "user created",
		User:    toUserResponse(user),
	})
}

// ListUsers returns every account without password hashes.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{Username: u.Username, Roles: rolesOrEmpty(u.Roles)}
}

func rolesOrEmpty(roles []string) []string {
	if roles == nil {
		return []string{}
	}
	return roles
}
