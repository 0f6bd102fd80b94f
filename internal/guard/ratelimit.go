package guard

import (
	"context"
	"errors"
	"sync"
	"time"
)

const defaultWindow = time.Second

// Limiter admits at most maxRequests calls in any trailing window. It is
// owned by a single guard instance and protects against rapid sequential
// calls within one process lifetime.
type Limiter struct {
	maxRequests int
	window      time.Duration

	mu    sync.Mutex
	calls []time.Time

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// LimiterOption customizes a Limiter.
type LimiterOption func(*Limiter)

// WithLimiterClock overrides the time source (useful for tests).
func WithLimiterClock(now func() time.Time) LimiterOption {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLimiterSleep overrides how gate waits are performed (useful for tests).
func WithLimiterSleep(sleep func(context.Context, time.Duration) error) LimiterOption {
	return func(l *Limiter) {
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

// NewLimiter constructs a Limiter admitting maxRequests calls per window.
// A non-positive window falls back to one second.
func NewLimiter(maxRequests int, window time.Duration, opts ...LimiterOption) *Limiter {
	if maxRequests < 1 {
		maxRequests = 1
	}
	if window <= 0 {
		window = defaultWindow
	}
	l := &Limiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// MaxRequests returns the configured window capacity.
func (l *Limiter) MaxRequests() int { return l.maxRequests }

// Window returns the configured rolling window duration.
func (l *Limiter) Window() time.Duration { return l.window }

// Wait blocks until the trailing window admits another call, then records
// the call timestamp and returns. It fails only when ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.mu.Lock()
		now := l.now()
		l.prune(now)
		if len(l.calls) < l.maxRequests {
			l.calls = append(l.calls, now)
			l.mu.Unlock()
			return nil
		}
		wait := l.window - now.Sub(l.calls[0])
		l.mu.Unlock()
		if wait <= 0 {
			continue
		}
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// prune drops timestamps that have aged out of the trailing window. Callers
// must hold l.mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.calls[:0]
	for _, ts := range l.calls {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.calls = kept
}

// Pending returns how many calls are currently recorded in the window.
func (l *Limiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.calls)
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx == nil {
		return errors.New("rate gate: nil context")
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
