// Package gateway is the typed client of the remote activities backend.
//
// Every endpoint answers with one envelope:
//
//	{"success": true|false, "message": "...", "data": <payload>}
//
// Anything else is a backend defect and is reported as a failure.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/logger"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/retry"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// GenericFailureMessage is shown when the backend gives no usable message
const GenericFailureMessage = "No se pudo completar la operación. Inténtalo de nuevo."

const maxResponseBody = 4 << 20

// Result is the uniform outcome of a mutating operation
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// Empty is the payload of operations that return nothing
type Empty struct{}

// Created carries the id the backend assigned to a new resource
type Created struct {
	ID string `json:"id"`
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Config contains configuration for the gateway client
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	// ReadRetries is how many times a read is repeated when the backend is unreachable
	ReadRetries int
}

// Client issues one request per operation against the backend
type Client struct {
	baseURL   string
	http      *http.Client
	readRetry *retry.Config
	log       *logger.Logger
}

// NewClient creates a new gateway client
func NewClient(cfg *Config, log *logger.Logger) *Client {
	timeout := 15 * time.Second
	var transport http.RoundTripper = http.DefaultTransport
	baseURL := ""
	readRetries := 0
	if cfg != nil {
		readRetries = cfg.ReadRetries
		baseURL = cfg.BaseURL
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
		if cfg.Transport != nil {
			transport = cfg.Transport
		}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout, Transport: transport},
		readRetry: &retry.Config{
			MaxRetries:      readRetries,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2.0,
			JitterFactor:    0.2,
		},
		log: log,
	}
}

// httpError is a non-2xx answer that did not carry a decodable envelope
type httpError struct {
	Status int
}

func (e *httpError) Error() string {
	return fmt.Sprintf("backend answered %d", e.Status)
}

// do sends one request and decodes the envelope
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	ctx, span := telemetry.StartSpan(ctx, "gateway."+method+" "+path)
	defer span.End()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", u),
	)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, domain.ErrSessionExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrBackendUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Success == nil {
		span.SetStatus(codes.Error, "malformed envelope")
		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		if resp.StatusCode >= 300 {
			return nil, &httpError{Status: resp.StatusCode}
		}
		return nil, fmt.Errorf("%w: response is not a success envelope", domain.ErrBackendUnavailable)
	}
	if resp.StatusCode == http.StatusNotFound && !*env.Success {
		return &env, domain.ErrNotFound
	}
	return &env, nil
}

// send runs a mutating operation. Transport and decoding problems come back as
// a failed Result; the error is reserved for an expired session.
func send[T any](ctx context.Context, c *Client, method, path string, body any) (*Result[T], error) {
	env, err := c.do(ctx, method, path, nil, body)
	if errors.Is(err, domain.ErrSessionExpired) {
		return nil, err
	}
	if err != nil && env == nil {
		c.log.Warn("Backend call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &Result[T]{Success: false, Message: GenericFailureMessage}, nil
	}

	res := &Result[T]{Success: *env.Success, Message: env.Message}
	if !res.Success {
		if res.Message == "" {
			res.Message = GenericFailureMessage
		}
		return res, nil
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &res.Data); err != nil {
			c.log.Warn("Backend payload does not match contract",
				zap.String("path", path),
				zap.Error(err),
			)
			return &Result[T]{Success: false, Message: GenericFailureMessage}, nil
		}
	}
	return res, nil
}

// fetch runs a read operation and propagates every failure to the caller.
// Reads are repeated while the backend is unreachable.
func fetch[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var zero T
	var env *envelope
	res := retry.New(c.readRetry).Do(ctx, func(ctx context.Context) error {
		var err error
		env, err = c.do(ctx, http.MethodGet, path, query, nil)
		if err != nil && !errors.Is(err, domain.ErrBackendUnavailable) {
			return retry.Permanent(err)
		}
		return err
	}, func(attempt int, err error, next time.Duration) {
		c.log.Debug("Retrying backend read",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("next", next),
			zap.Error(err),
		)
	})
	if res.Err != nil {
		if res.LastError != nil {
			return zero, res.LastError
		}
		return zero, res.Err
	}
	if !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = GenericFailureMessage
		}
		return zero, &BackendError{Message: msg}
	}
	var out T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return zero, fmt.Errorf("%w: decode %s: %v", domain.ErrBackendUnavailable, path, err)
		}
	}
	return out, nil
}

// BackendError is a read refused by the backend with a message
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string {
	return e.Message
}
