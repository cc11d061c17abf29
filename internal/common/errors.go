// Package common defines shared constants, sentinel errors and small helpers
// used across the MindCare server and CLI. Callers should match errors with
// errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrMalformedCredential marks a stored password credential that cannot be
	// split into salt and derived key. It is a data-integrity failure, never a
	// wrong-password signal.
	ErrMalformedCredential = errors.New("malformed credential")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	ErrorRateLimited = errors.New("rate limited")
)
