package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type tokenClaimsResponse struct {
	Subject   string   `json:"sub"`
	Roles     []string `json:"roles"`
	IssuedAt  int64    `json:"iat"`
	ExpiresAt int64    `json:"exp"`
	TokenID   string   `json:"jti"`
}

type whoamiResponse struct {
	Message     string              `json:"message"`
	Identity    string              `json:"identity"`
	TokenClaims tokenClaimsResponse `json:"token_claims"`
}

// createUserRequest requires a roles list; an empty list is accepted.
// bcrypt only reads the first 72 bytes of a password.
type createUserRequest struct {
	Username string   `json:"username" validate:"required,notblank,max=64"`
	Password string   `json:"password" validate:"required,max=72"`
	Roles    []string `json:"roles"    validate:"required,dive,required"`
}

type userResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type createUserResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}
