package application

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds one polling loop: a fixed interval between attempts and a
// hard attempt ceiling.
type Policy struct {
	Interval    time.Duration
	MaxAttempts uint64
}

// DefaultQueuePolicy bounds the wait for an executor, roughly one minute.
var DefaultQueuePolicy = Policy{Interval: 2 * time.Second, MaxAttempts: 30}

// DefaultStagePolicy bounds stage polling, roughly twenty minutes.
var DefaultStagePolicy = Policy{Interval: 2 * time.Second, MaxAttempts: 600}

// ErrAttemptsExhausted is returned when the ceiling is hit without the
// polled condition ever becoming ready.
var ErrAttemptsExhausted = errors.New("polling attempts exhausted")

// errNotReady marks a transient outcome inside a polling op: keep going.
var errNotReady = errors.New("not ready")

// pollUntil runs op at the policy's interval until it returns nil, the
// attempt ceiling is hit, or ctx is cancelled. Ops signal "try again" by
// returning errNotReady; any other error stops the loop as-is.
func pollUntil(ctx context.Context, p Policy, op backoff.Operation) error {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), attempts-1),
		ctx,
	)
	if err := backoff.Retry(op, bo); err != nil {
		if errors.Is(err, errNotReady) {
			return ErrAttemptsExhausted
		}
		return err
	}
	return nil
}
