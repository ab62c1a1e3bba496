package repository

import (
	"context"

	"securevault/internal/model"
)

// ActivityRepository persists the activity log, newest first.
type ActivityRepository interface {
	// List loads the full log; absent storage yields an empty slice.
	List(ctx context.Context) ([]model.Activity, error)
	// Save replaces the stored log.
	Save(ctx context.Context, acts []model.Activity) error
}

// SettingsRepository persists the flat security settings record.
type SettingsRepository interface {
	// Get returns stored settings merged over defaults.
	Get(ctx context.Context) (model.Settings, error)
	// Save replaces the stored settings.
	Save(ctx context.Context, s model.Settings) error
}
