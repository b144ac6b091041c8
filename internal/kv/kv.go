// Package kv provides the key-value backends that hold persisted records.
// Every backend stores opaque byte values under short string keys.
package kv

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

var (
	// ErrNotFound is returned by Get when no value is stored under the key.
	ErrNotFound = errors.New("key not found")

	// ErrUnavailable wraps failures of the underlying persistence layer
	// (permissions, disk full, database errors).
	ErrUnavailable = errors.New("storage unavailable")

	// ErrInvalidKey is returned for keys that cannot be used as identifiers.
	ErrInvalidKey = errors.New("invalid key")
)

// Backend is the get/set/remove capability a record store needs.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Handle is a Backend that holds resources until closed.
type Handle interface {
	Backend
	Close() error
}

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// SQLiteFile is the database file name used by Open for KindSQLite.
const SQLiteFile = "protein.db"

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open returns the backend of the given kind rooted at dataDir.
// An empty kind selects KindFile.
func Open(kind, dataDir string) (Handle, error) {
	switch kind {
	case "", KindFile:
		return NewFile(dataDir)
	case KindSQLite:
		return NewSQLite(filepath.Join(dataDir, SQLiteFile))
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s, %s or %s)", kind, KindFile, KindSQLite, KindMemory)
	}
}

func unavailable(op, key string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, key, ErrUnavailable, err)
}
