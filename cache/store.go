package cache

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"
)

// Store is the cache surface the services program against. Entries written
// with ttl <= 0 never expire on their own; staleness is handled by the
// event-driven invalidation in the events package, and TTLs are only used
// as safety nets where the caller opts in.
type Store interface {
	// Get returns the raw value for key, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePattern removes every key matching a glob-style pattern.
	DeletePattern(ctx context.Context, pattern string) error
	// Increment atomically bumps an integer counter; ttl applies from the
	// first increment only, giving fixed-window semantics for rate limits.
	Increment(ctx context.Context, key string, ttl time.Duration) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

var computeGroup singleflight.Group

// GetOrCompute returns the cached value under key, computing and storing it
// on a miss. Concurrent misses for the same key are collapsed into a single
// compute call. Compute errors are returned and nothing is cached.
func GetOrCompute[T any](ctx context.Context, store Store, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	if cached, err := GetJSON[T](ctx, store, key); err == nil && cached != nil {
		return *cached, nil
	}

	result, err, _ := computeGroup.Do(key, func() (any, error) {
		// Another caller may have filled the key while we waited
		if cached, err := GetJSON[T](ctx, store, key); err == nil && cached != nil {
			return *cached, nil
		}

		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		// Cache write failures must not fail the read path
		_ = SetJSON(ctx, store, key, value, ttl)

		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result.(T), nil
}

// SetJSON marshals value and stores it under key.
func SetJSON[T any](ctx context.Context, store Store, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, data, ttl)
}

// GetJSON retrieves and unmarshals the value under key, returning nil on a
// cache miss.
func GetJSON[T any](ctx context.Context, store Store, key string) (*T, error) {
	val, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if val == "" {
		return nil, nil // not found in cache
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}

	return &result, nil
}
