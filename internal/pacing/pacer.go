package pacing

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var randIntN = rand.IntN

// Pacer spaces out page interactions so the automation behaves like a human
// operator. Every wait is bounded and honors context cancellation.
type Pacer struct {
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New creates a pacer that allows at most one gated interaction per interval.
func New(interval time.Duration, logger *zap.Logger) *Pacer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Pacer{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

// Gate blocks until the rate limiter admits the next page interaction.
func (p *Pacer) Gate(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Buffer sleeps for a randomized delay derived from the configured speed.
// Speed 0 disables the delay, speeds up to 2 sleep 0.6-1.8s, larger speeds
// sleep 1.8s up to the speed value in seconds.
func (p *Pacer) Buffer(ctx context.Context, speed int) error {
	if speed <= 0 {
		return nil
	}

	var tenths int
	if speed <= 2 {
		tenths = 6 + randIntN(13)
	} else {
		tenths = 18 + randIntN(speed*10-17)
	}

	delay := time.Duration(tenths) * 100 * time.Millisecond
	if p.logger != nil {
		p.logger.Debug("buffer delay", zap.Duration("delay", delay))
	}

	return WaitFor(ctx, delay)
}

// WaitFor sleeps for the given duration unless the context is cancelled first.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
