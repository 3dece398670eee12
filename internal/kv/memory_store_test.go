package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	_, err := NewMemoryStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value, 0))
	value[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[0] = 'y'
	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "session", []byte("s"), time.Minute))
	require.NoError(t, m.Set(ctx, "forever", []byte("f"), 0))

	now = now.Add(59 * time.Second)
	_, err := m.Get(ctx, "session")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = m.Get(ctx, "session")
	assert.ErrorIs(t, err, ErrNotFound)

	now = now.Add(24 * time.Hour)
	_, err = m.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemoryStore_SetNX(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	ok, err := m.SetNX(ctx, "lock", []byte("1"), 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.SetNX(ctx, "lock", []byte("2"), 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	// an expired lock can be taken again
	now = now.Add(30 * time.Second)
	ok, err = m.SetNX(ctx, "lock", []byte("3"), 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.Del(ctx, "lock", "unknown"))
	ok, err = m.SetNX(ctx, "lock", []byte("4"), 0)
	require.NoError(t, err)
	assert.True(t, ok)
}
