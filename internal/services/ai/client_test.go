package ai_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"eicli/internal/config"
	"eicli/internal/guard"
	"eicli/internal/logging"
	"eicli/internal/services/ai"
)

const testAPIKey = "sk-test-1234567890abcdef"

// newTestService builds a service pointed at a fake endpoint with backoff
// sleeps disabled, so retry tests finish instantly.
func newTestService(baseURL string) *ai.Service {
	return ai.New(ai.Config{
		APIKey:     testAPIKey,
		BaseURL:    baseURL,
		MaxRetries: 3,
		RateLimit:  1000,
	},
		ai.WithLogger(logging.NewNop()),
		ai.WithGuardOptions(guard.WithSleep(func(context.Context, time.Duration) error {
			return nil
		})),
	)
}

func TestServiceName(t *testing.T) {
	if got := newTestService("").Name(); got != "openai" {
		t.Fatalf("Name: got %q", got)
	}
}

func TestCheckAvailable(t *testing.T) {
	svc := newTestService("")
	if ok, reason := svc.CheckAvailable(); !ok || reason != "" {
		t.Fatalf("expected available, got %v %q", ok, reason)
	}

	missing := ai.New(ai.Config{}, ai.WithLogger(logging.NewNop()))
	ok, reason := missing.CheckAvailable()
	if ok {
		t.Fatal("expected unavailable without a key")
	}
	if !strings.Contains(reason, "API key") {
		t.Fatalf("reason should mention the API key, got %q", reason)
	}
}

func TestUnavailableServiceRejectsCalls(t *testing.T) {
	missing := ai.New(ai.Config{}, ai.WithLogger(logging.NewNop()))
	_, err := missing.Search(context.Background(), "anything", ai.SearchOptions{})
	if err == nil {
		t.Fatal("expected unavailable error")
	}
	if !strings.Contains(err.Error(), "unavailable") || !strings.Contains(err.Error(), "API key") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestFromConfigWiresLimiter(t *testing.T) {
	cfg := config.Default()
	cfg.API.OpenAIAPIKey = config.NewSecret(testAPIKey)
	cfg.API.RateLimit = 5

	svc := ai.FromConfig(&cfg, ai.WithLogger(logging.NewNop()))
	if got := svc.Limiter().MaxRequests(); got != 5 {
		t.Fatalf("limiter capacity: got %d want 5", got)
	}
	if ok, _ := svc.CheckAvailable(); !ok {
		t.Fatal("expected service available from config key")
	}
}
