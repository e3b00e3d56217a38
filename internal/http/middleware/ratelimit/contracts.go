package ratelimit

import "time"

// Limiter decides whether the caller identified by key may proceed. When it
// may not, retryAfter estimates when the next attempt can succeed.
type Limiter interface {
	Allow(key string) (ok bool, retryAfter time.Duration)
}
