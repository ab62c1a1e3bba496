package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"securevault/internal/errs"
	"securevault/internal/model"
	"securevault/internal/storage"
)

// ActivityRepo implements ActivityRepository over the file store.
type ActivityRepo struct {
	store storage.Store
}

// NewActivityRepo constructs an activity repository.
func NewActivityRepo(store storage.Store) *ActivityRepo {
	return &ActivityRepo{store: store}
}

// List loads the full log, newest first.
func (r *ActivityRepo) List(ctx context.Context) ([]model.Activity, error) {
	raw, ok, err := r.store.Get(KeyActivities)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Activity{}, nil
	}
	var acts []model.Activity
	if err := json.Unmarshal(raw, &acts); err != nil {
		return nil, fmt.Errorf("activities: %w", errs.ErrBadFormat)
	}
	return acts, nil
}

// Save replaces the stored log.
func (r *ActivityRepo) Save(ctx context.Context, acts []model.Activity) error {
	if acts == nil {
		acts = []model.Activity{}
	}
	raw, err := json.Marshal(acts)
	if err != nil {
		return err
	}
	return r.store.Set(KeyActivities, raw)
}
