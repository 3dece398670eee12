package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
)

type ctxKey int

const (
	tokenKey ctxKey = iota
	sessionKey
)

// WithToken attaches the provider's bearer token to ctx
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFrom returns the bearer token attached to ctx
func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey).(string)
	return s
}

// WithSessionID attaches the browser session id to ctx
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionID)
}

// SessionIDFrom returns the browser session id attached to ctx
func SessionIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey).(string)
	return s
}

// ExpiredFunc is called once per request that found the token expired
type ExpiredFunc func(ctx context.Context, sessionID string)

// AuthTransport attaches the bearer token, propagates the trace context and turns
// an expired token into domain.ErrSessionExpired
type AuthTransport struct {
	Base        http.RoundTripper
	ExpiredCode string
	OnExpired   ExpiredFunc

	now func() time.Time
}

// NewAuthTransport creates an AuthTransport over base
func NewAuthTransport(base http.RoundTripper, expiredCode string, onExpired ExpiredFunc) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if expiredCode == "" {
		expiredCode = "TOKEN_EXPIRED"
	}
	return &AuthTransport{Base: base, ExpiredCode: expiredCode, OnExpired: onExpired, now: time.Now}
}

// RoundTrip implements http.RoundTripper
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	token := TokenFrom(ctx)

	if token != "" && t.tokenExpired(token) {
		t.expired(ctx)
		return nil, domain.ErrSessionExpired
	}

	out := req.Clone(ctx)
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	telemetry.InjectHeaders(ctx, out.Header)

	resp, err := t.Base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
	if t.isExpiredBody(body) {
		t.expired(ctx)
		return nil, domain.ErrSessionExpired
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

// tokenExpired checks exp locally so an expired token never reaches the backend.
// Tokens that are not JWTs are left for the backend to judge.
func (t *AuthTransport) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	now := time.Now
	if t.now != nil {
		now = t.now
	}
	return !now().Before(exp.Time)
}

func (t *AuthTransport) isExpiredBody(body []byte) bool {
	var payload struct {
		Code  string `json:"code"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	if payload.Code == t.ExpiredCode {
		return true
	}
	return payload.Error != nil && payload.Error.Code == t.ExpiredCode
}

func (t *AuthTransport) expired(ctx context.Context) {
	if t.OnExpired != nil {
		t.OnExpired(ctx, SessionIDFrom(ctx))
	}
}
