package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_DelayScalesWithAttempt(t *testing.T) {
	t.Parallel()

	p := RetryPolicy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond}
	if got := p.Delay(1); got != 100*time.Millisecond {
		t.Fatalf("attempt 1 delay = %s", got)
	}
	if got := p.Delay(2); got != 200*time.Millisecond {
		t.Fatalf("attempt 2 delay = %s", got)
	}
	if got := (RetryPolicy{}).Normalize().MaxAttempts; got != 1 {
		t.Fatalf("normalized attempts = %d, want 1", got)
	}
}

func TestSleep_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("sleep ignored cancellation")
	}
}
