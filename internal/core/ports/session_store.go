package ports

import "context"

// Persisted session keys.
const (
	StoreKeyToken = "token"
	StoreKeyAdmin = "admin"
	StoreKeyTheme = "theme"
)

// SessionStore is the key-value store that survives process restarts.
type SessionStore interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes all entries atomically.
	Set(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}
