// Package vaultcrypto encrypts the credential collection at rest. The stored
// value becomes nonce||ciphertext under XChaCha20-Poly1305; the key lives in a
// separate 0600 key file created on first use.
package vaultcrypto

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/chacha20poly1305"

	"securevault/internal/crypto"
)

// KeyLen is the symmetric key size in bytes.
const KeyLen = chacha20poly1305.KeySize

// Box seals and opens opaque blobs with a fixed key.
type Box struct {
	key []byte
}

// NewBox returns a Box over a KeyLen-byte key.
func NewBox(key []byte) (*Box, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("vaultcrypto: key must be %d bytes, got %d", KeyLen, len(key))
	}
	return &Box{key: append([]byte(nil), key...)}, nil
}

// Seal encrypts plaintext with a fresh random nonce prefixed to the output.
func (b *Box) Seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return nil, err
	}
	nonce, err := crypto.RandBytes(chacha20poly1305.NonceSizeX)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	out = append(out, aead.Seal(nil, nonce, plaintext, nil)...)
	return out, nil
}

// Open decrypts a blob produced by Seal.
func (b *Box) Open(blob []byte) ([]byte, error) {
	if len(blob) < chacha20poly1305.NonceSizeX {
		return nil, errors.New("vaultcrypto: blob too short")
	}
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return nil, err
	}
	nonce := blob[:chacha20poly1305.NonceSizeX]
	ct := blob[chacha20poly1305.NonceSizeX:]
	return aead.Open(nil, nonce, ct, nil)
}

// LoadOrCreateKey reads the key file, generating a fresh key on first use.
func LoadOrCreateKey(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		if len(b) != KeyLen {
			return nil, fmt.Errorf("vaultcrypto: key file %s has %d bytes, want %d", path, len(b), KeyLen)
		}
		return b, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	key, err := crypto.RandBytes(KeyLen)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("vaultcrypto: write key file: %w", err)
	}
	return key, nil
}
