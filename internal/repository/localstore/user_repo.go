package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"securevault/internal/errs"
	"securevault/internal/model"
	"securevault/internal/storage"
)

// UserRepo implements UserRepository over the file store.
type UserRepo struct {
	store storage.Store
	log   *zap.Logger
}

// NewUserRepo constructs a registry repository.
func NewUserRepo(store storage.Store, log *zap.Logger) *UserRepo {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserRepo{store: store, log: log}
}

// load reads the registry. A malformed value is treated as an empty registry:
// the registry has always self-healed this way, unlike the other collections.
func (r *UserRepo) load() ([]model.User, error) {
	raw, ok, err := r.store.Get(KeyUsers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.User{}, nil
	}
	var users []model.User
	if err := json.Unmarshal(raw, &users); err != nil {
		r.log.Warn("registry unreadable, starting empty", zap.Error(err))
		return []model.User{}, nil
	}
	return users, nil
}

func (r *UserRepo) save(users []model.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return r.store.Set(KeyUsers, raw)
}

// Create appends a registry entry, rejecting duplicate emails case-insensitively.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	users, err := r.load()
	if err != nil {
		return err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, u.Email) {
			return fmt.Errorf("user %s: %w", u.Email, errs.ErrAlreadyExists)
		}
	}
	users = append(users, *u)
	return r.save(users)
}

// GetByEmail finds a registry entry by email, case-insensitive.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, errs.ErrNotFound)
}
