package specstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a name is absent from the registry.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when registering a name that already exists
	// without asking to overwrite it.
	ErrDuplicateName = errors.New("already exists")

	// ErrCacheMissing is returned when a cache file is absent, unreadable or corrupt.
	// Callers treat all of these the same way: the cache must be rebuilt.
	ErrCacheMissing = errors.New("cache missing")
)

// StorageError reports a registry or cache I/O failure.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func notFound(name string) error {
	return fmt.Errorf("api %q %w", name, ErrNotFound)
}

func cacheMissing(name string, reason error) error {
	if reason == nil {
		return fmt.Errorf("api %q: %w", name, ErrCacheMissing)
	}
	return fmt.Errorf("api %q: %w: %v", name, ErrCacheMissing, reason)
}
