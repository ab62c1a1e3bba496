package service

import (
	"context"

	"securevault/internal/model"
	"securevault/internal/repository"
)

// BackupFileName is the default name for exported credential backups.
const BackupFileName = "vault_credentials_backup.json"

// SettingsService manages the security settings record and vault backups.
type SettingsService interface {
	// Get returns stored settings merged over defaults.
	Get(ctx context.Context) (model.Settings, error)
	// Save replaces the settings record.
	Save(ctx context.Context, s model.Settings) error
	// Export returns the credential collection's logical JSON value, exactly as
	// the backup file should contain it. Fails with errs.ErrNotFound when the
	// vault holds nothing.
	Export(ctx context.Context) ([]byte, error)
	// Import overwrites the credential collection wholesale from backup data.
	// Anything but a JSON array fails with errs.ErrBadFormat.
	Import(ctx context.Context, data []byte) error
}

type SettingsServiceImpl struct {
	settings    repository.SettingsRepository
	credentials repository.CredentialRepository
}

// NewSettingsService constructs SettingsService.
func NewSettingsService(settings repository.SettingsRepository, credentials repository.CredentialRepository) *SettingsServiceImpl {
	return &SettingsServiceImpl{settings: settings, credentials: credentials}
}

func (s *SettingsServiceImpl) Get(ctx context.Context) (model.Settings, error) {
	return s.settings.Get(ctx)
}

func (s *SettingsServiceImpl) Save(ctx context.Context, cfg model.Settings) error {
	return s.settings.Save(ctx, cfg)
}

func (s *SettingsServiceImpl) Export(ctx context.Context) ([]byte, error) {
	return s.credentials.ExportJSON(ctx)
}

func (s *SettingsServiceImpl) Import(ctx context.Context, data []byte) error {
	return s.credentials.ImportJSON(ctx, data)
}
