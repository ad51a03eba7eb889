package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the key/value port used for embedding memoisation and the
// hash-backed vector index.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. An expiration of 0 keeps it indefinitely.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	// HGet returns ErrCacheMiss if the field is not present.
	HGet(ctx context.Context, key, field string) (string, error)

	HGetAll(ctx context.Context, key string) (map[string]string, error)

	HSet(ctx context.Context, key string, field string, value string) error

	// HLen returns the number of fields in the hash stored at key.
	HLen(ctx context.Context, key string) (int64, error)

	Expire(ctx context.Context, key string, expiration time.Duration) error
}
