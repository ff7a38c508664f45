package storage

import "errors"

var (
	// ErrNotFound is returned by Load when no snapshot exists under the key.
	ErrNotFound = errors.New("snapshot not found")
	// ErrNotLoaded is returned when a provider is used before Init.
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is a key/value blob store. Each key holds one whole JSON snapshot;
// Save replaces the previous value atomically from the caller's view.
type Provider interface {
	// Init creates the backing store if needed and opens it. It is safe to
	// call on an existing store.
	Init() error
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Close() error

	// GetConfigPath returns the data file path, or a non-sensitive label for
	// network stores.
	GetConfigPath() string
}
