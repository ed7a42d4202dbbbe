package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialDelay:    time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		BackoffFactor:   2.0,
		MaxTotalTimeout: time.Second,
	}
}

func TestDoWithLog_SucceedsAfterRetries(t *testing.T) {
	attempts := 0
	var logged []int

	err := DoWithLog(context.Background(), fastConfig(), "ping", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		logged = append(logged, attempt)
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, logged)
}

func TestDoWithLog_ExhaustsAttempts(t *testing.T) {
	attempts := 0

	err := DoWithLog(context.Background(), fastConfig(), "ping", func() error {
		attempts++
		return errors.New("still down")
	}, nil)

	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "ping: max retry attempts (3) exceeded")
	assert.Contains(t, err.Error(), "still down")
}

func TestDoWithLog_ContextCancelAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := DoWithLog(ctx, fastConfig(), "ping", func() error {
		attempts++
		cancel()
		return errors.New("still down")
	}, nil)

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, context.Canceled)
}
