package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"virtual-vr-console/internal/config"
	"virtual-vr-console/internal/http/middleware/ratelimit"
	"virtual-vr-console/internal/logx"
)

// newRateLimiter builds the per-IP bucket guarding the sign-in and sign-up routes.
func newRateLimiter(cfg *config.Config, clock ratelimit.Clock, logger logx.Logger) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		logger.Warn("auth rate limit disabled")
		return ratelimit.NopLimiter{}
	}
	logger.Info("auth rate limit enabled",
		logx.Any("rate", rl.Rate),
		logx.Int("burst", rl.Burst),
		logx.Duration("bucket_ttl", rl.TTL),
	)
	return ratelimit.NewTokenBucketLimiter(clock, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}

func newRateLimitClock() ratelimit.Clock {
	return ratelimit.RealClock
}

type rateLimitIn struct {
	dig.In

	Logger   logx.Logger
	Rejected prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter  ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Rejected, in.Limiter)
}
