// Package resilience retries fallible operations with bounded backoff.
//
// Parsing itself never fails mid-stream, but the work around it — loading
// payloads, exporting results — can. Callers wrap those operations in a
// Policy; on exhaustion they get a documented default instead of an error
// crossing the boundary.
package resilience

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
)

// Policy bounds the retry behavior of one wrapped operation.
type Policy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// BaseDelay is the pause before the second attempt.
	BaseDelay time.Duration
	// Backoff multiplies the delay after each failed attempt.
	Backoff float64
}

// DefaultPolicy mirrors the retry settings used across the system: three
// attempts, one second base delay, doubling.
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, BaseDelay: time.Second, Backoff: 2.0}
}

// Run invokes fn under the policy, returning its result on the first
// success. Every failed attempt is logged; after the last one, or when
// the context is canceled between attempts, def is returned.
func Run[T any](ctx context.Context, logger *log.Logger, p Policy, stage string, def T, fn func(context.Context) (T, error)) T {
	if logger == nil {
		logger = log.New(stage)
	}
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.BaseDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Infof("%s: succeeded on attempt %d/%d", stage, attempt, attempts)
			}
			return res
		}
		logger.Errorf("%s: attempt %d/%d failed: %v", stage, attempt, attempts, err)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			logger.Warnf("%s: canceled after attempt %d: %v", stage, attempt, ctx.Err())
			return def
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * p.Backoff)
	}

	logger.Warnf("%s: all %d attempts exhausted, returning default", stage, attempts)
	return def
}
