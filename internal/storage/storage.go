// Package storage provides a local key-value store with the same contract the
// vault originally had against browser storage: opaque string keys holding JSON
// text, read and rewritten wholesale. One file per key under a data directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid/v5"
)

// Store is the persistence boundary every repository depends on.
type Store interface {
	// Get returns the raw value for key; ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set writes the full value for key, replacing any previous value.
	Set(key string, value []byte) error
	// Remove deletes the key. Removing an absent key is a no-op.
	Remove(key string) error
}

// FileStore keeps each key in <dir>/<key>.json. Writes go through a uniquely
// named temp file and a rename, so a concurrent reader never sees a torn value.
// Concurrent writers are last-writer-wins, same as the original storage.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, sanitize(key)+".json")
}

// sanitize keeps keys usable as file names. Known keys are plain identifiers,
// so this only guards against accidental separators.
func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, key)
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return b, true, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	suffix, err := uuid.NewV4()
	if err != nil {
		return err
	}
	tmp := s.path(key) + "." + suffix.String() + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
