package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"securevault/internal/errs"
	"securevault/internal/model"
	"securevault/internal/storage"
)

// CredentialRepo implements CredentialRepository over the file store, with an
// injected cipher guarding the stored value.
type CredentialRepo struct {
	store storage.Store
	box   Cipher
}

// NewCredentialRepo constructs a credential repository.
func NewCredentialRepo(store storage.Store, box Cipher) *CredentialRepo {
	return &CredentialRepo{store: store, box: box}
}

// loadJSON returns the logical JSON value, or ok=false when nothing is stored.
func (r *CredentialRepo) loadJSON() ([]byte, bool, error) {
	raw, ok, err := r.store.Get(KeyCredentials)
	if err != nil || !ok {
		return nil, false, err
	}
	plain, err := decode(r.box, raw)
	if err != nil {
		return nil, false, fmt.Errorf("credentials: %w", err)
	}
	return plain, true, nil
}

// List loads the full collection in insertion order.
func (r *CredentialRepo) List(ctx context.Context) ([]model.Credential, error) {
	plain, ok, err := r.loadJSON()
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Credential{}, nil
	}
	var creds []model.Credential
	if err := json.Unmarshal(plain, &creds); err != nil {
		return nil, fmt.Errorf("credentials: %w", errs.ErrBadFormat)
	}
	return creds, nil
}

// Save replaces the stored collection.
func (r *CredentialRepo) Save(ctx context.Context, creds []model.Credential) error {
	if creds == nil {
		creds = []model.Credential{}
	}
	plain, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	stored, err := encode(r.box, plain)
	if err != nil {
		return err
	}
	return r.store.Set(KeyCredentials, stored)
}

// ExportJSON returns the logical JSON value verbatim; errs.ErrNotFound when the
// vault holds nothing to export.
func (r *CredentialRepo) ExportJSON(ctx context.Context) ([]byte, error) {
	plain, ok, err := r.loadJSON()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no credentials to export: %w", errs.ErrNotFound)
	}
	return plain, nil
}

// ImportJSON overwrites the collection wholesale. The payload must be a JSON
// array; record shapes are deliberately not validated, matching the backup
// format's contract.
func (r *CredentialRepo) ImportJSON(ctx context.Context, data []byte) error {
	var seq []json.RawMessage
	if err := json.Unmarshal(data, &seq); err != nil {
		return fmt.Errorf("import: %w", errs.ErrBadFormat)
	}
	stored, err := encode(r.box, data)
	if err != nil {
		return err
	}
	return r.store.Set(KeyCredentials, stored)
}
