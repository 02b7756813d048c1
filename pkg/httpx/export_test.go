package httpx

import "time"

// Test hooks for the keyed limiter clock.

type KeyedLimiter = keyedLimiter

func NewKeyedLimiterForTest(cfg RateLimitConfig, now func() time.Time) *KeyedLimiter {
	return newKeyedLimiter(cfg, now)
}

func RateLimitMiddlewareWith(kl *KeyedLimiter, cfg RateLimitConfig, key KeyExtractor) Middleware {
	return rateLimitMiddleware(kl, cfg, key)
}

func (kl *keyedLimiter) Size() int { return kl.size() }
