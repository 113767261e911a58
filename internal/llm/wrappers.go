package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"interview-backend/internal/shared/metrics"
)

// WithTimeout bounds every call to base by d. Expiry surfaces as ErrOracleUnavailable.
func WithTimeout(base Client, d time.Duration) Client {
	if d <= 0 {
		return base
	}
	return ClientFunc(func(ctx context.Context, req CompletionRequest) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		out, err := base.Complete(ctx, req)
		if err != nil && ctx.Err() != nil {
			return "", Unavailable("timeout", ctx.Err())
		}
		return out, err
	})
}

// RateLimited throttles outbound oracle requests across all callers of the process.
type RateLimited struct {
	base    Client
	limiter *rate.Limiter
}

// NewRateLimited wraps base with a token bucket of perSecond refill and the given burst.
// A non-positive rate disables throttling.
func NewRateLimited(base Client, perSecond float64, burst int) Client {
	if perSecond <= 0 {
		return base
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{base: base, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Complete waits for a token, then calls the wrapped client.
func (r *RateLimited) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", Unavailable("rate limiter", err)
	}
	return r.base.Complete(ctx, req)
}

// Instrument records call counts, failures and latency per operation.
func Instrument(base Client) Client {
	return ClientFunc(func(ctx context.Context, req CompletionRequest) (string, error) {
		start := time.Now()
		metrics.IncOracleCall(req.Operation)
		out, err := base.Complete(ctx, req)
		metrics.ObserveOracleDurationMs(metrics.SinceMillis(start))
		if err != nil {
			metrics.IncOracleFailure(req.Operation)
		}
		return out, err
	})
}
