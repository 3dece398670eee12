package kv

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	pkgredis "github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, string) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := pkgredis.DefaultConfig()
	if host := os.Getenv("TEST_REDIS_HOST"); host != "" {
		cfg.Host = host
	}
	if password := os.Getenv("TEST_REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}

	client, err := pkgredis.NewClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client), "test:kv:" + uuid.NewString() + ":"
}

func TestRedisStore_GetMissing(t *testing.T) {
	store, prefix := newTestRedisStore(t)

	_, err := store.Get(context.Background(), prefix+"missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_SetGetWithTTL(t *testing.T) {
	store, prefix := newTestRedisStore(t)
	ctx := context.Background()
	key := prefix + "session"

	require.NoError(t, store.Set(ctx, key, []byte(`{"step":"title"}`), time.Second))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"step":"title"}`, string(got))

	time.Sleep(1500 * time.Millisecond)
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_SetNXContention(t *testing.T) {
	store, prefix := newTestRedisStore(t)
	ctx := context.Background()
	key := prefix + "lock"
	defer store.Del(ctx, key)

	var wg sync.WaitGroup
	var acquired atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.SetNX(ctx, key, []byte("1"), 10*time.Second)
			assert.NoError(t, err)
			if ok {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), acquired.Load())
}

func TestRedisStore_Del(t *testing.T) {
	store, prefix := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, prefix+"a", []byte("1"), 0))
	require.NoError(t, store.Set(ctx, prefix+"b", []byte("2"), 0))

	require.NoError(t, store.Del(ctx, prefix+"a", prefix+"b", prefix+"never-set"))
	require.NoError(t, store.Del(ctx))

	for _, k := range []string{"a", "b"} {
		_, err := store.Get(ctx, prefix+k)
		assert.ErrorIs(t, err, ErrNotFound)
	}

	ok, err := store.SetNX(ctx, prefix+"a", []byte("3"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, store.Del(ctx, prefix+"a"))
}
