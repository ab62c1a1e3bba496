// Package localstore implements the repositories over the key-value file
// store, preserving the persisted-state layout the vault has always used:
// JSON values under fixed keys, rewritten wholesale on every mutation.
package localstore

import (
	"encoding/base64"
	"fmt"

	"securevault/internal/errs"
)

// Storage keys. The layout is part of the external contract; renaming a key
// orphans existing data.
const (
	KeyUser         = "vault_user"
	KeySessionToken = "vault_session_token"
	KeyUsers        = "vault_registered_users"
	KeyCredentials  = "vault_credentials"
	KeyActivities   = "vault_activities"
	KeySettings     = "vault_security_settings"
)

// Cipher is the encryption-at-rest capability the credential repository
// depends on. Implementations live outside this package.
type Cipher interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(blob []byte) ([]byte, error)
}

// PlainCipher stores values as-is, keeping the original plaintext JSON layout.
type PlainCipher struct{}

func (PlainCipher) Seal(plaintext []byte) ([]byte, error) { return plaintext, nil }
func (PlainCipher) Open(blob []byte) ([]byte, error)      { return blob, nil }

// encode turns a sealed blob into storable text. PlainCipher output is JSON
// already; anything else is base64-wrapped so the stored value stays text.
func encode(box Cipher, plaintext []byte) ([]byte, error) {
	sealed, err := box.Seal(plaintext)
	if err != nil {
		return nil, err
	}
	if _, plain := box.(PlainCipher); plain {
		return sealed, nil
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sealed)))
	base64.StdEncoding.Encode(out, sealed)
	return out, nil
}

// decode reverses encode. Undecodable or unopenable values report ErrBadFormat.
func decode(box Cipher, stored []byte) ([]byte, error) {
	if _, plain := box.(PlainCipher); plain {
		return stored, nil
	}
	sealed := make([]byte, base64.StdEncoding.DecodedLen(len(stored)))
	n, err := base64.StdEncoding.Decode(sealed, stored)
	if err != nil {
		return nil, fmt.Errorf("decode stored value: %w", errs.ErrBadFormat)
	}
	out, err := box.Open(sealed[:n])
	if err != nil {
		return nil, fmt.Errorf("open stored value: %w", errs.ErrBadFormat)
	}
	return out, nil
}
