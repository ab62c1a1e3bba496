package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"securevault/internal/errs"
	"securevault/internal/model"
	"securevault/internal/storage"
)

// SettingsRepo implements SettingsRepository over the file store.
type SettingsRepo struct {
	store storage.Store
}

// NewSettingsRepo constructs a settings repository.
func NewSettingsRepo(store storage.Store) *SettingsRepo {
	return &SettingsRepo{store: store}
}

// Get returns stored settings merged over defaults, so records written before a
// field existed still load.
func (r *SettingsRepo) Get(ctx context.Context) (model.Settings, error) {
	s := model.DefaultSettings()
	raw, ok, err := r.store.Get(KeySettings)
	if err != nil {
		return s, err
	}
	if !ok {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.DefaultSettings(), fmt.Errorf("settings: %w", errs.ErrBadFormat)
	}
	return s, nil
}

// Save replaces the stored settings.
func (r *SettingsRepo) Save(ctx context.Context, s model.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.store.Set(KeySettings, raw)
}
