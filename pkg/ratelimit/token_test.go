package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenLimiter_TryTake(t *testing.T) {
	l := NewTokenLimiter(2, time.Hour)

	assert.True(t, l.TryTake(1))
	assert.True(t, l.TryTake(1))
	assert.False(t, l.TryTake(1))
}

func TestTokenLimiter_TakesMoreThanRemaining(t *testing.T) {
	l := NewTokenLimiter(3, time.Hour)

	assert.True(t, l.TryTake(2))
	assert.False(t, l.TryTake(2))
	assert.True(t, l.TryTake(1))
}

func TestTokenLimiter_RefillsAfterPeriod(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	l := NewTokenLimiter(1, 24*time.Hour)
	l.lastRefill = now
	l.now = func() time.Time { return now }

	assert.True(t, l.TryTake(1))
	assert.False(t, l.TryTake(1))

	now = now.Add(23 * time.Hour)
	assert.False(t, l.TryTake(1))

	now = now.Add(time.Hour)
	assert.True(t, l.TryTake(1))
	assert.False(t, l.TryTake(1))
}

func TestTokenLimiter_Concurrent(t *testing.T) {
	l := NewTokenLimiter(50, time.Hour)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		taken int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryTake(1) {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, taken)
}
