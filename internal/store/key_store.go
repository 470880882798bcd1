package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"e2estore/internal/domain"
	"e2estore/internal/util/memzero"
)

const storageKeyFilename = "storage.key.enc"

// KeyFileStore keeps the storage key on disk sealed under a passphrase.
type KeyFileStore struct {
	dir string
	kdf kdfParams
	mu  sync.Mutex
}

// NewKeyFileStore returns a KeyFileStore rooted at dir.
func NewKeyFileStore(dir string) *KeyFileStore {
	return &KeyFileStore{dir: dir, kdf: defaultKDF}
}

// SaveStorageKey seals key under passphrase and writes it to disk.
func (s *KeyFileStore) SaveStorageKey(passphrase string, key domain.StorageKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := seal(passphrase, key.Slice(), s.kdf)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, storageKeyFilename), b, 0o600)
}

// LoadStorageKey reads and opens the storage key. ok is false when no key has
// been saved yet.
func (s *KeyFileStore) LoadStorageKey(passphrase string) (domain.StorageKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var key domain.StorageKey
	b, ok, err := readFile(filepath.Join(s.dir, storageKeyFilename))
	if err != nil || !ok {
		return key, false, err
	}
	raw, err := open(passphrase, b)
	if err != nil {
		return key, false, err
	}
	defer memzero.Zero(raw)
	if len(raw) != len(key) {
		return key, false, fmt.Errorf("storage key has %d bytes, want %d", len(raw), len(key))
	}
	copy(key[:], raw)
	return key, true, nil
}

// Compile-time assertion that KeyFileStore implements domain.StorageKeyStore.
var _ domain.StorageKeyStore = (*KeyFileStore)(nil)
