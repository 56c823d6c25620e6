package crawler

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out requests to supplier sites: a fixed minimum delay from
// a rate limiter plus random jitter, and a longer pause after a bot block.
type Pacer struct {
	limiter *rate.Limiter
	jitter  time.Duration
	backoff time.Duration
}

func NewPacer(delay, jitter, backoff time.Duration) *Pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Pacer{
		limiter: rate.NewLimiter(limit, 1),
		jitter:  jitter,
		backoff: backoff,
	}
}

// Wait blocks until the next request may start. The first call returns
// immediately apart from jitter.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	if p.jitter <= 0 {
		return nil
	}
	return sleep(ctx, time.Duration(rand.Int64N(int64(p.jitter))))
}

// Backoff pauses after a site answered with a bot-protection page.
func (p *Pacer) Backoff(ctx context.Context) error {
	return sleep(ctx, p.backoff)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
