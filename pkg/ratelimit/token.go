package ratelimit

import (
	"sync"
	"time"
)

// TokenLimiter hands out a fixed number of tokens per refill period. Unlike a
// smoothed rate.Limiter the whole window resets at once, which matches
// per-day request quotas.
type TokenLimiter struct {
	sync.Mutex
	capacity     int
	remaining    int
	refillPeriod time.Duration
	lastRefill   time.Time
	now          func() time.Time
}

func NewTokenLimiter(tokens int, period time.Duration) *TokenLimiter {
	return &TokenLimiter{
		capacity:     tokens,
		remaining:    tokens,
		refillPeriod: period,
		lastRefill:   time.Now(),
		now:          time.Now,
	}
}

// TryTake takes tokens if they are available now and reports whether it did.
func (l *TokenLimiter) TryTake(tokens int) bool {
	l.Lock()
	defer l.Unlock()

	l.refill()
	if l.remaining < tokens {
		return false
	}
	l.remaining -= tokens
	return true
}

// refill must be called with the lock held.
func (l *TokenLimiter) refill() {
	now := l.now()
	if now.Sub(l.lastRefill) >= l.refillPeriod {
		l.remaining = l.capacity
		l.lastRefill = now
	}
}
