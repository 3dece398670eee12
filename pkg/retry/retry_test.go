package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
		JitterFactor:    0,
	}
}

func TestNew_WithZeroValues(t *testing.T) {
	r := New(&Config{})

	assert.Equal(t, time.Second, r.config.InitialInterval)
	assert.Equal(t, 30*time.Second, r.config.MaxInterval)
	assert.Equal(t, 2.0, r.config.Multiplier)
}

func TestRetrier_Do_SuccessAfterRetries(t *testing.T) {
	attempts := 0
	result := New(fastConfig(5)).Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary")
		}
		return nil
	}, nil)

	assert.NoError(t, result.Err)
	assert.Equal(t, 3, result.Attempts)
}

func TestRetrier_Do_MaxRetriesExceeded(t *testing.T) {
	callbacks := 0
	result := New(fastConfig(2)).Do(context.Background(), func(ctx context.Context) error {
		return errors.New("always")
	}, func(attempt int, err error, next time.Duration) {
		callbacks++
	})

	assert.ErrorIs(t, result.Err, ErrMaxRetriesExceeded)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 2, callbacks)
	assert.EqualError(t, result.LastError, "always")
}

func TestRetrier_Do_PermanentError(t *testing.T) {
	base := errors.New("bad credentials")
	result := Do(context.Background(), fastConfig(5), func(ctx context.Context) error {
		return Permanent(base)
	})

	assert.ErrorIs(t, result.Err, base)
	assert.Equal(t, 1, result.Attempts)
}

func TestRetrier_Do_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Do(ctx, fastConfig(3), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, result.Err, ErrContextCanceled)
}

func TestRetrier_Interval_Capped(t *testing.T) {
	r := New(&Config{InitialInterval: time.Second, MaxInterval: 3 * time.Second, Multiplier: 2})

	assert.Equal(t, time.Second, r.interval(0))
	assert.Equal(t, 2*time.Second, r.interval(1))
	assert.Equal(t, 3*time.Second, r.interval(5))
}

func TestPermanent_Nil(t *testing.T) {
	assert.Nil(t, Permanent(nil))
}
