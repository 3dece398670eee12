package draft

import (
	"context"
	"testing"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleForm struct {
	StartDate string  `json:"startDate"`
	Capacity  int     `json:"capacity"`
	Private   bool    `json:"private"`
	Price     float64 `json:"price"`
}

func TestKey(t *testing.T) {
	assert.Equal(t, "includes", Key(domain.StepIncludes, ""))
	assert.Equal(t, "includes", Key(domain.StepIncludes, "opt-1"))
	assert.Equal(t, "meeting_pickup:opt-1", Key(domain.StepMeetingPickup, "opt-1"))
	assert.Equal(t, "availability_pricing", Key(domain.StepAvailabilityPricing, ""))
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	in := scheduleForm{StartDate: "2026-01-10", Capacity: 12, Private: true, Price: 49.9}

	require.NoError(t, NewStore(backend, "", 0).Save(ctx, "sid", domain.StepAvailabilityPricing, "opt-1", in))

	// New store instance over the same backend, as after a reload
	var out scheduleForm
	require.NoError(t, NewStore(backend, "", 0).Load(ctx, "sid", domain.StepAvailabilityPricing, "opt-1", &out))
	assert.Equal(t, in, out)
}

func TestStore_OptionScoped(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemoryStore(), "", 0)

	require.NoError(t, store.Save(ctx, "sid", domain.StepMeetingPickup, "opt-1", scheduleForm{Capacity: 1}))
	require.NoError(t, store.Save(ctx, "sid", domain.StepMeetingPickup, "opt-2", scheduleForm{Capacity: 2}))

	var out scheduleForm
	require.NoError(t, store.Load(ctx, "sid", domain.StepMeetingPickup, "opt-1", &out))
	assert.Equal(t, 1, out.Capacity)
}

func TestStore_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemoryStore(), "", 0)

	require.NoError(t, store.Save(ctx, "sid", domain.StepTitle, "", map[string]string{"title": "City"}))
	require.NoError(t, store.Save(ctx, "sid", domain.StepTitle, "", map[string]string{"title": "City Tour"}))

	var out map[string]string
	require.NoError(t, store.Load(ctx, "sid", domain.StepTitle, "", &out))
	assert.Equal(t, "City Tour", out["title"])
}

func TestStore_DeleteAndMissing(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemoryStore(), "", 0)

	var out scheduleForm
	assert.ErrorIs(t, store.Load(ctx, "sid", domain.StepTitle, "", &out), ErrNoDraft)

	require.NoError(t, store.Save(ctx, "sid", domain.StepTitle, "", scheduleForm{}))
	require.NoError(t, store.Delete(ctx, "sid", domain.StepTitle, ""))
	assert.ErrorIs(t, store.Load(ctx, "sid", domain.StepTitle, "", &out), ErrNoDraft)
}
