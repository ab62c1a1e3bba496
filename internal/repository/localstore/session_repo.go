package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"securevault/internal/errs"
	"securevault/internal/model"
	"securevault/internal/storage"
)

// SessionRepo implements SessionRepository over the file store.
type SessionRepo struct {
	store storage.Store
}

// NewSessionRepo constructs a session repository.
func NewSessionRepo(store storage.Store) *SessionRepo {
	return &SessionRepo{store: store}
}

// Set stores the session user and its token.
func (r *SessionRepo) Set(ctx context.Context, u model.SessionUser, token string) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := r.store.Set(KeyUser, raw); err != nil {
		return err
	}
	return r.store.Set(KeySessionToken, []byte(token))
}

// Get returns the active session. A malformed session value is dropped and
// reported as no session, matching the original recovery behavior.
func (r *SessionRepo) Get(ctx context.Context) (model.SessionUser, string, error) {
	raw, ok, err := r.store.Get(KeyUser)
	if err != nil {
		return model.SessionUser{}, "", err
	}
	if !ok {
		return model.SessionUser{}, "", fmt.Errorf("no session: %w", errs.ErrUnauthorized)
	}
	var u model.SessionUser
	if err := json.Unmarshal(raw, &u); err != nil {
		_ = r.store.Remove(KeyUser)
		_ = r.store.Remove(KeySessionToken)
		return model.SessionUser{}, "", fmt.Errorf("corrupt session: %w", errs.ErrUnauthorized)
	}
	tok, _, err := r.store.Get(KeySessionToken)
	if err != nil {
		return model.SessionUser{}, "", err
	}
	return u, string(tok), nil
}

// Clear removes the session and token.
func (r *SessionRepo) Clear(ctx context.Context) error {
	if err := r.store.Remove(KeyUser); err != nil {
		return err
	}
	return r.store.Remove(KeySessionToken)
}
