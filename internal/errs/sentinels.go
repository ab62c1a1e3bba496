// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrValidation indicates malformed or rejected input (mismatched passwords, bad category).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired indicates the stored session outlived the configured timeout.
	ErrSessionExpired = errors.New("session expired")

	// ErrBadFormat indicates malformed persisted or imported data.
	ErrBadFormat = errors.New("bad format")
)
