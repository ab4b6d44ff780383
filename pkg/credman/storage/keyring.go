package storage

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// DefaultKeyringService is the keyring service name entries are stored under.
const DefaultKeyringService = "artsy"

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
)

// KeyringStorage stores values in the operating system's native keyring
// (Keychain, Secret Service, Windows Credential Manager). Some platforms cap
// entry size at a few kilobytes, which is plenty for a handful of session
// cookies but not for large cookie sets.
type KeyringStorage struct {
	Service string
}

// NewKeyringStorage returns a KeyringStorage for the given service name,
// falling back to DefaultKeyringService when empty.
func NewKeyringStorage(service string) *KeyringStorage {
	if service == "" {
		service = DefaultKeyringService
	}
	return &KeyringStorage{Service: service}
}

func (k *KeyringStorage) Get(key string) ([]byte, error) {
	v, err := keyringGet(k.Service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (k *KeyringStorage) Put(key string, value []byte) error {
	return keyringSet(k.Service, key, string(value))
}

func (k *KeyringStorage) Delete(key string) error {
	err := keyringDelete(k.Service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

var _ Storage = (*KeyringStorage)(nil)
