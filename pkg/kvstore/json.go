package kvstore

import (
	"context"
	"encoding/json"
	"errors"
)

// GetJSON loads and decodes a JSON record. A missing key returns ok=false
// with a nil error. An unparseable value returns ok=false together with an
// error wrapping ErrCorruptValue: callers log it and treat the key as absent.
func GetJSON[T any](ctx context.Context, s Store, key string) (value T, ok bool, err error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return value, false, nil
	}
	if err != nil {
		return value, false, err
	}

	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		var zero T
		return zero, false, errors.Join(ErrCorruptValue, err)
	}
	return value, true, nil
}

// SetJSON encodes and stores a record.
func SetJSON[T any](ctx context.Context, s Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(raw))
}
