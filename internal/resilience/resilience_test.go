package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastPolicy(attempts int) Policy {
	return Policy{Attempts: attempts, BaseDelay: time.Millisecond, Backoff: 1.0}
}

func TestRunFirstAttemptSucceeds(t *testing.T) {
	calls := 0
	got := Run(context.Background(), nil, fastPolicy(3), "load", -1,
		func(context.Context) (int, error) {
			calls++
			return 42, nil
		})

	assert.Equal(t, 42, got)
	assert.Equal(t, 1, calls)
}

func TestRunRetriesUntilSuccess(t *testing.T) {
	calls := 0
	got := Run(context.Background(), nil, fastPolicy(3), "load", "",
		func(context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("transient")
			}
			return "ok", nil
		})

	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRunExhaustionReturnsDefault(t *testing.T) {
	calls := 0
	got := Run(context.Background(), nil, fastPolicy(2), "load", "fallback",
		func(context.Context) (string, error) {
			calls++
			return "partial", errors.New("permanent")
		})

	assert.Equal(t, "fallback", got)
	assert.Equal(t, 2, calls)
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	got := Run(ctx, nil, Policy{Attempts: 5, BaseDelay: time.Minute, Backoff: 2.0}, "load", 7,
		func(context.Context) (int, error) {
			calls++
			return 0, errors.New("fail")
		})

	assert.Equal(t, 7, got)
	assert.Equal(t, 1, calls, "no retry after cancellation")
}

func TestRunNormalizesAttempts(t *testing.T) {
	calls := 0
	Run(context.Background(), nil, Policy{Attempts: 0}, "load", 0,
		func(context.Context) (int, error) {
			calls++
			return 0, errors.New("fail")
		})

	assert.Equal(t, 1, calls)
}
