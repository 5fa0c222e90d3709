package testutil

import (
	"context"
	"sync"
	"time"
)

// FakeSleeper records requested sleep durations without blocking.
//
// Implements poll.Sleeper. Polling tests inject it so that a condition
// needing N probe evaluations completes instantly while the test can
// still assert that exactly N-1 sleeps were requested.
type FakeSleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

// NewFakeSleeper creates an empty FakeSleeper.
func NewFakeSleeper() *FakeSleeper {
	return &FakeSleeper{}
}

// Sleep records d and returns immediately. If ctx is already cancelled
// the cancellation error is returned, mirroring the real sleeper.
func (s *FakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = append(s.sleeps, d)
	return nil
}

// Sleeps returns a copy of the recorded durations in request order.
func (s *FakeSleeper) Sleeps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.sleeps))
	copy(out, s.sleeps)
	return out
}
