package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(perMinute, burst int, expiry time.Duration) (*Keyed, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	k := NewPerMinute(perMinute, burst, expiry)
	k.now = clock.Now
	return k, clock
}

func TestAllow_BurstThenRefill(t *testing.T) {
	k, clock := newTestLimiter(60, 2, time.Hour)

	assert.True(t, k.Allow("a"))
	assert.True(t, k.Allow("a"))
	assert.False(t, k.Allow("a"))

	// other keys have their own bucket
	assert.True(t, k.Allow("b"))

	clock.Advance(time.Second)
	assert.True(t, k.Allow("a"))
	assert.False(t, k.Allow("a"))
}

func TestAllow_DisabledWhenRateZero(t *testing.T) {
	k, _ := newTestLimiter(0, 1, time.Hour)
	for i := 0; i < 100; i++ {
		assert.True(t, k.Allow("x"))
	}
}

func TestEvictIdleKeys(t *testing.T) {
	k, clock := newTestLimiter(10, 1, time.Minute)

	k.Allow("a")
	k.Allow("b")
	assert.Equal(t, 2, k.Len())

	clock.Advance(2 * time.Minute)
	k.Allow("c")
	assert.Equal(t, 1, k.Len())
}

func TestAllow_Concurrent(t *testing.T) {
	k, _ := newTestLimiter(1, 5, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if k.Allow("same") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, allowed)
}
