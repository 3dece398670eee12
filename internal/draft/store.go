// Package draft keeps the in-progress form of each wizard step until the step is saved
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/kv"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ErrNoDraft is returned when a step has nothing autosaved
var ErrNoDraft = errors.New("no draft saved for this step")

// Key is the single namespacing function for step drafts. Steps that do not
// belong to a booking option ignore optionID.
func Key(step domain.StepName, optionID string) string {
	def, err := domain.LookupStep(step)
	if err != nil || !def.RequiresOption || optionID == "" {
		return string(step)
	}
	return string(step) + ":" + optionID
}

// Store reads and writes step drafts scoped by browser session
type Store struct {
	kv     kv.Store
	prefix string
	ttl    time.Duration
}

// NewStore creates a draft store
func NewStore(backend kv.Store, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "extranet"
	}
	return &Store{kv: backend, prefix: prefix, ttl: ttl}
}

func (s *Store) storageKey(sessionID string, step domain.StepName, optionID string) string {
	return s.prefix + ":draft:" + sessionID + ":" + Key(step, optionID)
}

// Raw returns the stored draft as JSON
func (s *Store) Raw(ctx context.Context, sessionID string, step domain.StepName, optionID string) (json.RawMessage, error) {
	ctx, span := telemetry.StartSpan(ctx, "draft.load")
	defer span.End()
	span.SetAttributes(attribute.String("step", string(step)))

	raw, err := s.kv.Get(ctx, s.storageKey(sessionID, step, optionID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNoDraft
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load draft %s: %w", step, err)
	}
	return raw, nil
}

// Load decodes the stored draft into v. v keeps its values when there is no draft.
func (s *Store) Load(ctx context.Context, sessionID string, step domain.StepName, optionID string, v any) error {
	raw, err := s.Raw(ctx, sessionID, step, optionID)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode draft %s: %w", step, err)
	}
	return nil
}

// Save overwrites the draft with the full form state; last write wins
func (s *Store) Save(ctx context.Context, sessionID string, step domain.StepName, optionID string, v any) error {
	ctx, span := telemetry.StartSpan(ctx, "draft.save")
	defer span.End()
	span.SetAttributes(attribute.String("step", string(step)))

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", step, err)
	}
	if err := s.kv.Set(ctx, s.storageKey(sessionID, step, optionID), raw, s.ttl); err != nil {
		span.RecordError(err)
		return fmt.Errorf("save draft %s: %w", step, err)
	}
	return nil
}

// Delete drops the draft once the step has been persisted by the backend
func (s *Store) Delete(ctx context.Context, sessionID string, step domain.StepName, optionID string) error {
	return s.kv.Del(ctx, s.storageKey(sessionID, step, optionID))
}
