package repository

import (
	"context"

	"securevault/internal/model"
)

// UserRepository provides access to the account registry.
type UserRepository interface {
	// Create appends a new registry entry; errs.ErrAlreadyExists when the email
	// is already registered (case-insensitive).
	Create(ctx context.Context, u *model.User) error
	// GetByEmail loads a registry entry by email, case-insensitive;
	// errs.ErrNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// SessionRepository holds the single active identity and its token.
type SessionRepository interface {
	// Set stores the session user and the signed session token.
	Set(ctx context.Context, u model.SessionUser, token string) error
	// Get returns the current session; errs.ErrUnauthorized when none is stored.
	Get(ctx context.Context) (model.SessionUser, string, error)
	// Clear removes the session. Clearing an absent session is a no-op.
	Clear(ctx context.Context) error
}
