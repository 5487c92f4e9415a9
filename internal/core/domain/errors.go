package domain

import "errors"

// Authentication and authorization.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("missing access token")
	ErrMalformedToken     = errors.New("invalid access token")
	ErrExpiredToken       = errors.New("access token expired")
	ErrForbidden          = errors.New("role not authorized")
)

// Users.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrInvalidUser     = errors.New("username and password are required")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// Plants.
var (
	ErrPlantNotFound  = errors.New("plant not found")
	ErrInvalidPlantID = errors.New("invalid plant id")
	ErrInvalidPlant   = errors.New("name, type and care_level must not be blank")
	ErrEmptyUpdate    = errors.New("at least one field is required to update")
)

// ErrStorage wraps failures of the persistence layer. It is never retried.
var ErrStorage = errors.New("storage unavailable")
