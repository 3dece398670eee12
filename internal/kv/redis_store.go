package kv

import (
	"context"
	"errors"
	"time"

	pkgredis "github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/redis"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RedisStore implements Store using Redis
type RedisStore struct {
	client *pkgredis.Client
}

// NewRedisStore creates a new RedisStore
func NewRedisStore(client *pkgredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the value stored under key
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "kv.redis.get")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, pkgredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return val, nil
}

// Set stores value under key
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, span := telemetry.StartSpan(ctx, "kv.redis.set")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// SetNX stores value only if key is absent
func (r *RedisStore) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "kv.redis.setnx")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	span.SetAttributes(attribute.Bool("acquired", ok))
	return ok, nil
}

// Del removes keys
func (r *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, span := telemetry.StartSpan(ctx, "kv.redis.del")
	defer span.End()

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
