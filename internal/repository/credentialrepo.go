// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"securevault/internal/model"
)

// CredentialRepository persists the vault collection as a whole. The collection
// is an insertion-ordered sequence; callers read it, mutate a copy, and write
// everything back.
type CredentialRepository interface {
	// List loads the full collection; absent storage yields an empty slice.
	List(ctx context.Context) ([]model.Credential, error)
	// Save replaces the stored collection.
	Save(ctx context.Context, creds []model.Credential) error
	// ExportJSON returns the logical JSON value of the collection, exactly as a
	// backup file should contain it.
	ExportJSON(ctx context.Context) ([]byte, error)
	// ImportJSON overwrites the collection wholesale from a JSON array.
	// Non-array input fails with errs.ErrBadFormat.
	ImportJSON(ctx context.Context, data []byte) error
}
