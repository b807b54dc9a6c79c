// Package store is the device-local key/value persistence helper. Each
// independent concern owns one key; values are typed through a Codec and a
// value that cannot be decoded is treated as absent.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt marks a stored value that could not be decoded into its type.
var ErrCorrupt = errors.New("store: corrupt value")

// Backend persists raw bytes under string keys.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Deleter is implemented by backends that can drop a key outright.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Delete removes key from b, or blanks it when b cannot delete. Load treats
// an empty value as absent either way.
func Delete(ctx context.Context, b Backend, key string) error {
	if d, ok := b.(Deleter); ok {
		return d.Delete(ctx, key)
	}
	return b.Save(ctx, key, nil)
}

type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// JSON encodes values with encoding/json.
type JSON[T any] struct{}

func (JSON[T]) Encode(v T) ([]byte, error) { return json.Marshal(v) }

func (JSON[T]) Decode(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// Key binds a storage key to its type, default value and codec.
type Key[T any] struct {
	Name    string
	Default func() T
	Codec   Codec[T]
}

// NewKey returns a JSON-encoded key. def may be nil, meaning the zero value.
func NewKey[T any](name string, def func() T) Key[T] {
	return Key[T]{Name: name, Default: def, Codec: JSON[T]{}}
}

func (k Key[T]) fallback() T {
	if k.Default == nil {
		var zero T
		return zero
	}
	return k.Default()
}

// Load always yields a usable value. A missing entry gives the default with a
// nil error; a backend failure or an undecodable entry gives the default
// together with the error, so callers can log it and carry on.
func (k Key[T]) Load(ctx context.Context, b Backend) (T, error) {
	data, ok, err := b.Load(ctx, k.Name)
	if err != nil {
		return k.fallback(), fmt.Errorf("store: load %s: %w", k.Name, err)
	}
	if !ok || len(data) == 0 {
		return k.fallback(), nil
	}

	v, err := k.Codec.Decode(data)
	if err != nil {
		return k.fallback(), fmt.Errorf("%w: %s: %v", ErrCorrupt, k.Name, err)
	}
	return v, nil
}

// Writable reports whether a value returned by Load may be modified and saved
// back: it loaded cleanly, or the stored entry was corrupt and the default
// replaces it. Any other error means the stored value is unknown.
func Writable(err error) bool {
	return err == nil || errors.Is(err, ErrCorrupt)
}

// Save encodes v and writes the whole value under the key.
func (k Key[T]) Save(ctx context.Context, b Backend, v T) error {
	data, err := k.Codec.Encode(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", k.Name, err)
	}
	if err := b.Save(ctx, k.Name, data); err != nil {
		return fmt.Errorf("store: save %s: %w", k.Name, err)
	}
	return nil
}
