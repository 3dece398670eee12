package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/kv"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/logger"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Store persists one CreationSession per browser session id
type Store interface {
	// Load returns the defaults merged with whatever was persisted last
	Load(ctx context.Context, sessionID string) (*domain.CreationSession, error)

	// Save serializes the whole state
	Save(ctx context.Context, sessionID string, s *domain.CreationSession) error

	// Clear drops the persisted state of a session
	Clear(ctx context.Context, sessionID string) error
}

// StoreConfig contains configuration for the session store
type StoreConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

type kvStore struct {
	kv     kv.Store
	prefix string
	ttl    time.Duration
	log    *logger.Logger
}

// NewStore creates a session store on top of a key-value backend
func NewStore(backend kv.Store, cfg *StoreConfig, log *logger.Logger) Store {
	prefix := "extranet"
	ttl := 30 * 24 * time.Hour
	if cfg != nil {
		if cfg.KeyPrefix != "" {
			prefix = cfg.KeyPrefix
		}
		if cfg.TTL > 0 {
			ttl = cfg.TTL
		}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &kvStore{kv: backend, prefix: prefix, ttl: ttl, log: log}
}

// Key returns the storage key of a session
func Key(prefix, sessionID string) string {
	return prefix + ":session:" + sessionID
}

func (s *kvStore) Load(ctx context.Context, sessionID string) (*domain.CreationSession, error) {
	if sessionID == "" {
		return nil, domain.ErrMissingSessionID
	}
	ctx, span := telemetry.StartSpan(ctx, "session.load")
	defer span.End()
	span.SetAttributes(attribute.String("session_id", sessionID))

	state := domain.NewCreationSession()

	raw, err := s.kv.Get(ctx, Key(s.prefix, sessionID))
	if errors.Is(err, kv.ErrNotFound) {
		return state, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load session: %w", err)
	}

	// Unmarshal over the defaults so fields missing from old blobs keep their initial value
	if err := json.Unmarshal(raw, state); err != nil {
		s.log.Warn("Discarding corrupt creation session",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return domain.NewCreationSession(), nil
	}
	if state.TotalSteps != domain.TotalSteps {
		state.TotalSteps = domain.TotalSteps
	}
	if state.CurrentStep > state.TotalSteps {
		state.CurrentStep = state.TotalSteps
	}
	if _, err := domain.LookupStep(state.Step); err != nil {
		state.Step = domain.StepCategory
		state.CurrentStep = 1
	}
	return state, nil
}

func (s *kvStore) Save(ctx context.Context, sessionID string, state *domain.CreationSession) error {
	if sessionID == "" {
		return domain.ErrMissingSessionID
	}
	ctx, span := telemetry.StartSpan(ctx, "session.save")
	defer span.End()
	span.SetAttributes(
		attribute.String("session_id", sessionID),
		attribute.String("step", string(state.Step)),
	)

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, Key(s.prefix, sessionID), raw, s.ttl); err != nil {
		span.RecordError(err)
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *kvStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrMissingSessionID
	}
	return s.kv.Del(ctx, Key(s.prefix, sessionID))
}
