// Package prefs reads typed values from an untyped key-value store,
// validating every read and falling back to a default on any failure.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pders01/prlink/internal/logger"
)

var (
	// ErrInvalid is returned when a value fails its schema on write
	ErrInvalid = errors.New("invalid preference value")

	// ErrWatchUnsupported is returned by Watch when the backend cannot notify
	ErrWatchUnsupported = errors.New("store does not support change notifications")
)

// KV is a synchronous string key-value store
type KV interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Subscriber is implemented by KV backends that can report external writes
type Subscriber interface {
	Subscribe(ctx context.Context, key string, fn func()) error
}

// Default produces the fallback value. It is called on every fallback.
type Default[T any] func() T

// Value returns a Default that always yields v
func Value[T any](v T) Default[T] {
	return func() T { return v }
}

// Func returns a Default that calls fn on every fallback
func Func[T any](fn func() T) Default[T] {
	return Default[T](fn)
}

// Store is a typed, validated accessor for a single key
type Store[T any] struct {
	kv     KV
	schema Schema[T]
	key    string
	def    Default[T]
}

// New creates a Store for key
func New[T any](kv KV, schema Schema[T], key string, def Default[T]) *Store[T] {
	return &Store[T]{
		kv:     kv,
		schema: schema,
		key:    key,
		def:    def,
	}
}

// Key returns the storage key
func (s *Store[T]) Key() string {
	return s.key
}

// Get returns the stored value, or the default when the key is absent,
// holds malformed JSON, or holds JSON that fails the schema. Failures are
// logged and never returned.
func (s *Store[T]) Get(ctx context.Context) T {
	ctx = logger.With(ctx, slog.String("key", s.key))

	raw, found, err := s.kv.Get(s.key)
	if err != nil {
		logger.Error(ctx, "Error reading preference", err)
		return s.def()
	}
	if !found {
		logger.Debug(ctx, "Preference not set, using default")
		return s.def()
	}

	value, err := s.decode(raw)
	if err != nil {
		logger.Error(ctx, "Error parsing preference", err, slog.String("raw", raw))
		return s.def()
	}
	return value
}

func (s *Store[T]) decode(raw string) (T, error) {
	var value T
	if !json.Valid([]byte(raw)) {
		return value, errors.New("malformed JSON")
	}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return value, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.schema.Validate(value); err != nil {
		return value, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return value, nil
}

// Set validates and stores value
func (s *Store[T]) Set(ctx context.Context, value T) error {
	if err := s.schema.Validate(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode preference: %w", err)
	}

	if err := s.kv.Set(s.key, string(raw)); err != nil {
		return err
	}
	logger.Debug(ctx, "Preference saved", slog.String("key", s.key), slog.String("raw", string(raw)))
	return nil
}

// Remove deletes the stored value so reads return the default
func (s *Store[T]) Remove(ctx context.Context) error {
	if err := s.kv.Remove(s.key); err != nil {
		return err
	}
	logger.Debug(ctx, "Preference removed", slog.String("key", s.key))
	return nil
}

// Watch calls fn with a freshly validated value after every change to the
// key, including changes made by other processes sharing the store. It
// blocks until ctx is done.
func (s *Store[T]) Watch(ctx context.Context, fn func(T)) error {
	sub, ok := s.kv.(Subscriber)
	if !ok {
		return ErrWatchUnsupported
	}
	return sub.Subscribe(ctx, s.key, func() {
		fn(s.Get(ctx))
	})
}
