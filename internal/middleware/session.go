package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/gateway"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/logger"
	pkgmiddleware "github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/middleware"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/response"
	"go.uber.org/zap"
)

const (
	// SessionIDKey is the gin context key for the browser session id
	SessionIDKey = "session_id"
)

// TokenStore keeps the bearer token bound to a browser session
type TokenStore interface {
	Token(ctx context.Context, sessionID string) (string, error)
	SaveToken(ctx context.Context, sessionID, token string) error
}

// Session requires the session header and puts the session id and bearer
// token on the request context for the gateway client. A token sent in the
// Authorization header replaces the stored one.
func Session(tokens TokenStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := strings.TrimSpace(c.GetHeader(pkgmiddleware.SessionIDHeader))
		if sid == "" {
			response.Error(c, http.StatusBadRequest, "MISSING_SESSION_ID", "X-Session-ID header is required", nil)
			return
		}
		ctx := c.Request.Context()

		token := bearerToken(c.GetHeader("Authorization"))
		if token != "" {
			if err := tokens.SaveToken(ctx, sid, token); err != nil {
				log.Warn("Failed to store session token", zap.String("session_id", sid), zap.Error(err))
			}
		} else {
			stored, err := tokens.Token(ctx, sid)
			if err != nil {
				log.Warn("Failed to load session token", zap.String("session_id", sid), zap.Error(err))
			}
			token = stored
		}

		ctx = gateway.WithSessionID(ctx, sid)
		if token != "" {
			ctx = gateway.WithToken(ctx, token)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set(SessionIDKey, sid)

		c.Next()
	}
}

// GetSessionID returns the session id set by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
