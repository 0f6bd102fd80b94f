package guard

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"eicli/internal/services"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second
	defaultMaxDelay   = 30 * time.Second
)

// Options configures the retry loop of a Guard.
type Options struct {
	// MaxRetries is the total number of attempts, including the first.
	MaxRetries int
	// BaseDelay is the backoff before the second attempt; attempt n waits
	// BaseDelay * 2^(n-1), capped at MaxDelay.
	BaseDelay time.Duration
	// MaxDelay caps any single backoff sleep.
	MaxDelay time.Duration
	// Jitter adds up to 25% random slack to each backoff sleep.
	Jitter bool
	// GateRetries re-applies the rate gate before every retry attempt, not
	// just the first. With a tight window and a high retry count this can
	// stretch total wall-clock latency considerably, so it is a knob.
	GateRetries bool
}

// Guard executes call thunks behind a rate gate and a bounded retry loop.
type Guard struct {
	limiter *Limiter
	opts    Options

	sleep func(context.Context, time.Duration) error
	randf func() float64
}

// GuardOption customizes a Guard.
type GuardOption func(*Guard)

// WithSleep overrides how backoff sleeps are performed (useful for tests).
func WithSleep(sleep func(context.Context, time.Duration) error) GuardOption {
	return func(g *Guard) {
		if sleep != nil {
			g.sleep = sleep
		}
	}
}

// New constructs a Guard around limiter. A nil limiter disables the rate
// gate.
func New(limiter *Limiter, opts Options, gopts ...GuardOption) *Guard {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.BaseDelay < 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = defaultMaxDelay
	}
	g := &Guard{
		limiter: limiter,
		opts:    opts,
		sleep:   sleepContext,
		randf:   rand.Float64,
	}
	for _, opt := range gopts {
		opt(g)
	}
	return g
}

// Do runs fn behind the rate gate, retrying transient failures with
// exponential backoff. On exhaustion it returns *services.CallError wrapping
// the last failure under the operation name.
func (g *Guard) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	attempts := g.opts.MaxRetries
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if g.limiter != nil && (attempt == 1 || g.opts.GateRetries) {
			if err := g.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		// Abort only when the caller's own context is done. The error chain
		// is no signal here: a per-request HTTP client timeout also matches
		// context.DeadlineExceeded, and that failure is transient.
		if ctx.Err() != nil {
			return err
		}
		var paramErr *services.ParameterError
		if errors.As(err, &paramErr) {
			return err
		}
		if attempt == attempts {
			break
		}
		if err := g.sleep(ctx, g.backoffDelay(attempt)); err != nil {
			return err
		}
	}

	return &services.CallError{Op: op, Attempts: attempts, Err: lastErr}
}

// Call runs fn through g.Do and returns its value on success.
func Call[T any](ctx context.Context, g *Guard, op string, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := g.Do(ctx, op, func(ctx context.Context) error {
		value, err := fn(ctx)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// backoffDelay returns the sleep before the attempt following the given
// 1-based attempt number: base, 2*base, 4*base, ... capped at MaxDelay.
func (g *Guard) backoffDelay(attempt int) time.Duration {
	delay := g.opts.BaseDelay
	if delay <= 0 {
		return 0
	}
	for i := 1; i < attempt; i++ {
		if delay > g.opts.MaxDelay/2 {
			delay = g.opts.MaxDelay
			break
		}
		delay *= 2
	}
	if delay > g.opts.MaxDelay {
		delay = g.opts.MaxDelay
	}
	if g.opts.Jitter && delay > 0 {
		delay += time.Duration(g.randf() * 0.25 * float64(delay))
	}
	return delay
}
