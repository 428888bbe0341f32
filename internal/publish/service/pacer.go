package service

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer is the abstract advance signal between progress increments. The
// simulated pipeline waits on it where a real one would wait on upload or
// network I/O, so swapping in real work does not touch the state machine.
type Pacer interface {
	Wait(ctx context.Context) error
}

type ratePacer struct {
	limiter *rate.Limiter
}

// NewRatePacer paces ticks at one per interval.
func NewRatePacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return Immediate{}
	}
	return &ratePacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (p *ratePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Immediate never waits. Tests use it to run the pipeline synchronously.
type Immediate struct{}

func (Immediate) Wait(ctx context.Context) error {
	return ctx.Err()
}
