package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist or expired
var ErrNotFound = errors.New("kv: key not found")

// Store defines the key-value operations the session, draft and lock layers need
type Store interface {
	// Get returns the raw value stored under key
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key; a zero ttl keeps it forever
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX stores value only if key is absent and reports whether it did
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Del removes keys; missing keys are ignored
	Del(ctx context.Context, keys ...string) error
}
