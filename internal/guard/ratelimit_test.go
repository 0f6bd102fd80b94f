package guard_test

import (
	"context"
	"testing"
	"time"

	"eicli/internal/guard"
)

// fakeClock pairs a movable now with a sleep that advances it, so limiter
// tests never block on real time.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func newTestLimiter(maxRequests int, window time.Duration, clock *fakeClock) *guard.Limiter {
	return guard.NewLimiter(maxRequests, window,
		guard.WithLimiterClock(clock.Now),
		guard.WithLimiterSleep(clock.Sleep),
	)
}

func TestLimiterAdmitsUnderCapacity(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(3, time.Second, clock)

	for i := 0; i < 3; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d returned error: %v", i, err)
		}
	}
	if len(clock.slept) != 0 {
		t.Fatalf("expected no sleeps under capacity, got %v", clock.slept)
	}
	if got := limiter.Pending(); got != 3 {
		t.Fatalf("pending: got %d want 3", got)
	}
}

func TestLimiterDelaysWhenSaturated(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(2, time.Second, clock)

	for i := 0; i < 2; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d returned error: %v", i, err)
		}
	}
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("third Wait returned error: %v", err)
	}
	if len(clock.slept) != 1 {
		t.Fatalf("expected one gate sleep, got %v", clock.slept)
	}
	if clock.slept[0] != time.Second {
		t.Fatalf("gate sleep: got %v want %v", clock.slept[0], time.Second)
	}
}

func TestLimiterWindowSlides(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(2, time.Second, clock)

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	clock.now = clock.now.Add(600 * time.Millisecond)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}

	// Third call only needs the first slot to age out.
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if len(clock.slept) != 1 || clock.slept[0] != 400*time.Millisecond {
		t.Fatalf("expected one 400ms sleep, got %v", clock.slept)
	}
}

func TestLimiterHonorsContextCancellation(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(1, time.Second, clock)

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Wait(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLimiterDefaults(t *testing.T) {
	limiter := guard.NewLimiter(0, 0)
	if limiter.MaxRequests() != 1 {
		t.Fatalf("max requests: got %d want 1", limiter.MaxRequests())
	}
	if limiter.Window() != time.Second {
		t.Fatalf("window: got %v want 1s", limiter.Window())
	}
}
