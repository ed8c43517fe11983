// Package common defines sentinel errors shared by repositories, services and
// the REST layer. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate value")

	// Service-level errors.
	ErrorInternal       = errors.New("internal error")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Input validation errors.
	ErrMissingFields = errors.New("missing fields")
	ErrWeakPassword  = errors.New("weak password")
	ErrInvalidID     = errors.New("invalid id")
	ErrNoUpdates     = errors.New("no updates provided")
	ErrNameRequired  = errors.New("name is required")
	ErrNotImage      = errors.New("only image files are allowed")

	// Auth errors.
	ErrDuplicateEmail     = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)
