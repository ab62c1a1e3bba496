package localstore

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"securevault/internal/crypto/vaultcrypto"
	"securevault/internal/errs"
	"securevault/internal/model"
	"securevault/internal/repository"
	"securevault/internal/storage"
)

var (
	_ repository.CredentialRepository = (*CredentialRepo)(nil)
	_ repository.UserRepository      = (*UserRepo)(nil)
	_ repository.SessionRepository   = (*SessionRepo)(nil)
	_ repository.ActivityRepository  = (*ActivityRepo)(nil)
	_ repository.SettingsRepository  = (*SettingsRepo)(nil)
	_ Cipher                         = (*vaultcrypto.Box)(nil)
)

func newStore(t *testing.T) *storage.FileStore {
	t.Helper()
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func cred(id, site string) model.Credential {
	now := time.Now().UTC().Truncate(time.Second)
	return model.Credential{
		ID:        id,
		SiteName:  site,
		Username:  "bob",
		Password:  "Abc12345!",
		Category:  "Work",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCredentialRepo_Plain(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewCredentialRepo(newStore(t), PlainCipher{})

	got, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "absent storage yields empty collection")

	require.NoError(t, r.Save(ctx, []model.Credential{cred("1", "GitHub"), cred("2", "Bank")}))

	got, err = r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "GitHub", got[0].SiteName, "insertion order preserved")
	assert.Equal(t, "Bank", got[1].SiteName)
}

func TestCredentialRepo_Encrypted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)

	box, err := vaultcrypto.NewBox(bytes.Repeat([]byte{3}, vaultcrypto.KeyLen))
	require.NoError(t, err)
	r := NewCredentialRepo(store, box)

	require.NoError(t, r.Save(ctx, []model.Credential{cred("1", "GitHub")}))

	raw, ok, err := store.Get(KeyCredentials)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, string(raw), "GitHub", "stored value must not leak plaintext")

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GitHub", got[0].SiteName)

	// logical export is still the plain JSON array
	exp, err := r.ExportJSON(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(exp), "GitHub")
}

func TestCredentialRepo_MalformedValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.Set(KeyCredentials, []byte("{not json")))

	r := NewCredentialRepo(store, PlainCipher{})
	_, err := r.List(ctx)
	assert.ErrorIs(t, err, errs.ErrBadFormat)
}

func TestCredentialRepo_ExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)
	r := NewCredentialRepo(store, PlainCipher{})

	require.NoError(t, r.Save(ctx, []model.Credential{cred("1", "GitHub")}))

	exported, err := r.ExportJSON(ctx)
	require.NoError(t, err)

	require.NoError(t, r.ImportJSON(ctx, exported))

	stored, ok, err := store.Get(KeyCredentials)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, exported, stored, "export then import is byte-identical in plain layout")
}

func TestCredentialRepo_ImportRejectsNonArray(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewCredentialRepo(newStore(t), PlainCipher{})

	assert.ErrorIs(t, r.ImportJSON(ctx, []byte(`{"id":"1"}`)), errs.ErrBadFormat)
	assert.ErrorIs(t, r.ImportJSON(ctx, []byte(`nope`)), errs.ErrBadFormat)

	// arrays pass even when record shapes are odd; backups are trusted wholesale
	require.NoError(t, r.ImportJSON(ctx, []byte(`[{"whatever":1}]`)))
}

func TestCredentialRepo_ExportEmptyVault(t *testing.T) {
	t.Parallel()
	r := NewCredentialRepo(newStore(t), PlainCipher{})
	_, err := r.ExportJSON(context.Background())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
