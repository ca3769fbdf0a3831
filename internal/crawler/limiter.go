package crawler

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter caps the outbound fetch rate for one crawl.
// It wraps golang.org/x/time/rate with a burst of one token, so the time
// between the start of two consecutive fetches is at least
// 1/maxRequestsPerSecond. The ceiling is global across the whole crawl:
// neither link depth nor a concurrent spider variant can multiply effective
// throughput, because every fetch waits on the same limiter.
type Limiter struct {
	limiter *rate.Limiter
}

// defaultRequestsPerSecond is used when a non-positive rate is supplied.
const defaultRequestsPerSecond = 2.5

// NewLimiter creates a Limiter with the given requests-per-second ceiling.
// A non-positive ceiling falls back to the default (~2.5 req/s, i.e. a
// 400ms minimum inter-request gap).
func NewLimiter(requestsPerSecond float64) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRequestsPerSecond
	}
	return &Limiter{
		// Burst of 1: tokens can never accumulate, so the minimum gap
		// holds even after an idle period.
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Wait blocks until the next fetch may start or the context is done.
// It is invoked once per fetch, before the request is issued.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
