package cache

import (
	"context"
	"time"
)

// Memoize caches the results of fn under keyFn(arg). Only successful
// results are stored, a failed call is retried on the next invocation.
func Memoize[A, V any](
	store *Store[V],
	fn func(ctx context.Context, arg A) (V, error),
	keyFn func(arg A) string,
	ttl time.Duration,
) func(ctx context.Context, arg A) (V, error) {
	return func(ctx context.Context, arg A) (V, error) {
		key := keyFn(arg)
		if value, ok := store.Get(key); ok {
			return value, nil
		}
		value, err := fn(ctx, arg)
		if err != nil {
			return value, err
		}
		return store.Set(key, value, ttl), nil
	}
}
