package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/response"
)

const (
	// SessionIDHeader identifies the browser session a request belongs to
	SessionIDHeader = "X-Session-ID"
	// ContextKeySubmitLock is the context key for the held lock key
	ContextKeySubmitLock = "submit_lock"
	// DefaultSubmitLockTTL bounds how long a crashed request can block its session
	DefaultSubmitLockTTL = 30 * time.Second
	// SubmitLockPrefix is the key prefix for submit locks
	SubmitLockPrefix = "submit:"
)

// Locker is the subset of a key-value store the submit guard needs
type Locker interface {
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// SubmitGuardConfig holds configuration for the submit guard middleware
type SubmitGuardConfig struct {
	// Locker stores the in-flight markers
	Locker Locker
	// Prefix is prepended to every lock key
	Prefix string
	// TTL of a lock that was never released
	TTL time.Duration
	// KeyExtractor builds the lock key from the request (default: session id)
	KeyExtractor func(*gin.Context) string
	// SkipPaths is a list of paths that should skip the guard
	SkipPaths []string
	// Methods that are guarded (default: POST, PUT, PATCH, DELETE)
	RequiredMethods []string
}

// DefaultSubmitGuardConfig returns default configuration
func DefaultSubmitGuardConfig(locker Locker) *SubmitGuardConfig {
	return &SubmitGuardConfig{
		Locker:          locker,
		Prefix:          SubmitLockPrefix,
		TTL:             DefaultSubmitLockTTL,
		KeyExtractor:    defaultKeyExtractor,
		SkipPaths:       []string{},
		RequiredMethods: []string{"POST", "PUT", "PATCH", "DELETE"},
	}
}

// defaultKeyExtractor keys the lock on the session alone: every state-changing
// wizard request loads, edits and saves the same session blob
func defaultKeyExtractor(c *gin.Context) string {
	return c.GetHeader(SessionIDHeader)
}

// SubmitGuard rejects a request while another one from the same session is still running
func SubmitGuard(config *SubmitGuardConfig) gin.HandlerFunc {
	if config.TTL == 0 {
		config.TTL = DefaultSubmitLockTTL
	}
	if config.KeyExtractor == nil {
		config.KeyExtractor = defaultKeyExtractor
	}

	return func(c *gin.Context) {
		for _, path := range config.SkipPaths {
			if matchPath(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		if !isMethodRequired(c.Request.Method, config.RequiredMethods) {
			c.Next()
			return
		}

		key := config.KeyExtractor(c)
		if key == "" {
			c.Next()
			return
		}
		lockKey := config.Prefix + key
		ctx := c.Request.Context()

		acquired, err := config.Locker.SetNX(ctx, lockKey, []byte(time.Now().UTC().Format(time.RFC3339Nano)), config.TTL)
		if err != nil {
			// Store error - continue without the guard (fail open)
			c.Next()
			return
		}
		if !acquired {
			response.Error(c, http.StatusConflict, "REQUEST_IN_PROGRESS", "Ya se está procesando esta solicitud", nil)
			return
		}

		c.Set(ContextKeySubmitLock, lockKey)
		defer func() {
			_ = config.Locker.Del(context.WithoutCancel(ctx), lockKey)
		}()

		c.Next()
	}
}

// GetSubmitLock returns the lock key held by the current request
func GetSubmitLock(c *gin.Context) (string, bool) {
	key, exists := c.Get(ContextKeySubmitLock)
	if !exists {
		return "", false
	}
	k, ok := key.(string)
	return k, ok
}

func isMethodRequired(method string, requiredMethods []string) bool {
	for _, m := range requiredMethods {
		if method == m {
			return true
		}
	}
	return false
}

func matchPath(path, pattern string) bool {
	// Simple prefix matching, supports wildcards at end
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	}
	return path == pattern
}
