package kvstore

import (
	"context"
	"errors"
)

var (
	ErrKeyNotFound  = errors.New("kvstore: key not found")
	ErrEmptyKey     = errors.New("kvstore: key cannot be empty")
	ErrCorruptValue = errors.New("kvstore: stored value is not valid JSON")
)

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set creates or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
