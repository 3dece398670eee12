package session

import (
	"context"
	"errors"
	"time"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/kv"
)

// Credentials keeps the provider's bearer token bound to a browser session, so
// requests that omit the Authorization header still reach the backend authenticated
type Credentials struct {
	kv     kv.Store
	prefix string
	ttl    time.Duration
}

// NewCredentials creates a credential store
func NewCredentials(backend kv.Store, prefix string, ttl time.Duration) *Credentials {
	if prefix == "" {
		prefix = "extranet"
	}
	return &Credentials{kv: backend, prefix: prefix, ttl: ttl}
}

func (c *Credentials) key(sessionID string) string {
	return c.prefix + ":token:" + sessionID
}

// Token returns the stored token, empty when none
func (c *Credentials) Token(ctx context.Context, sessionID string) (string, error) {
	raw, err := c.kv.Get(ctx, c.key(sessionID))
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SaveToken binds token to the session
func (c *Credentials) SaveToken(ctx context.Context, sessionID, token string) error {
	return c.kv.Set(ctx, c.key(sessionID), []byte(token), c.ttl)
}

// ClearToken forgets the token; called when the backend reports it expired
func (c *Credentials) ClearToken(ctx context.Context, sessionID string) error {
	return c.kv.Del(ctx, c.key(sessionID))
}
