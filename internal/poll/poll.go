// Package poll synchronizes test assertions with asynchronous
// application state.
//
// The target framework exposes no discrete events an external test
// driver can wait on, only predicates that can be re-evaluated. So the
// harness polls: evaluate the probe, sleep a fixed interval, repeat
// until true. There is deliberately no intrinsic timeout; the caller
// bounds the wait with a context deadline (test frameworks already
// provide one), which keeps timeout behavior uniform across call sites.
package poll

import (
	"context"
	"time"
)

// DefaultInterval is the fixed delay between probe evaluations.
const DefaultInterval = 100 * time.Millisecond

// Sleeper suspends the calling task. Tests inject a fake so that
// polling behavior can be asserted without real delays.
type Sleeper interface {
	// Sleep blocks for d or until ctx is cancelled, returning the
	// cancellation error in that case.
	Sleep(ctx context.Context, d time.Duration) error
}

// timerSleeper is the production Sleeper backed by a real timer.
type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Option configures WaitForCondition.
type Option func(*config)

type config struct {
	interval time.Duration
	sleeper  Sleeper
}

// WithInterval overrides the delay between probe evaluations.
func WithInterval(d time.Duration) Option {
	return func(c *config) {
		c.interval = d
	}
}

// WithSleeper overrides the sleeper used between evaluations.
func WithSleeper(s Sleeper) Option {
	return func(c *config) {
		c.sleeper = s
	}
}

// WaitForCondition repeatedly evaluates probe until it returns true.
//
// The probe runs inside the application's privileged process; each
// evaluation is one cross-process round trip. A false result schedules
// a retry after the configured interval. A probe error is never
// retried: structural failures are deterministic, so it propagates
// immediately. Cancellation is the caller's responsibility via ctx.
func WaitForCondition(ctx context.Context, probe func(context.Context) (bool, error), opts ...Option) error {
	cfg := config{interval: DefaultInterval, sleeper: timerSleeper{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := probe(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if err := cfg.sleeper.Sleep(ctx, cfg.interval); err != nil {
			return err
		}
	}
}
