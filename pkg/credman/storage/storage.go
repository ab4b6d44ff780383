// Package storage provides the durable key-value backends the cookie store
// persists into: a plain file, a SQLite database, the operating system's
// keyring, and an in-memory map for tests and throwaway sessions.
package storage

import "errors"

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a durable key-value store. Implementations must be safe for
// concurrent use. Delete of a missing key is not an error.
type Storage interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}
