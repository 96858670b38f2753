// Package common defines shared constants and sentinel errors used across
// the AccessHub layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal  = errors.New("internal error")
	ErrorTransient = errors.New("temporary failure, retry later")

	// Authentication errors.
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Authorization errors.
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// Token errors (bearer tokens and verification artifacts).
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")

	// Verification lifecycle errors.
	ErrExpired           = errors.New("expired")
	ErrAlreadyVerified   = errors.New("already verified")
	ErrAttemptsExhausted = errors.New("verification attempts exhausted")
	ErrIncorrectCode     = errors.New("incorrect code")

	// Account status errors.
	ErrAccountSuspended = errors.New("account suspended")
	ErrAccountLocked    = errors.New("account locked")
)
