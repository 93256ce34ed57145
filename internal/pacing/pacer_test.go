package pacing

import (
	"context"
	"testing"
	"time"
)

func TestBufferZeroSpeedReturnsImmediately(t *testing.T) {
	p := New(time.Second, nil)

	start := time.Now()
	if err := p.Buffer(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("expected no delay, slept %v", elapsed)
	}
}

func TestBufferDelayBands(t *testing.T) {
	old := randIntN
	defer func() { randIntN = old }()

	randIntN = func(int) int { return 0 }

	p := New(time.Second, nil)

	start := time.Now()
	if err := p.Buffer(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 600*time.Millisecond {
		t.Fatalf("expected at least 0.6s delay for speed 2, slept %v", elapsed)
	}
}

func TestWaitForHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Minute); err == nil {
		t.Fatal("expected cancellation error")
	}
}
