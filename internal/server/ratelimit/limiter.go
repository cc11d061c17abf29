// Package ratelimit keeps one token bucket per key (client IP or user id).
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed hands out a token bucket per key and forgets keys that have been
// idle for longer than the expiry.
type Keyed struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	expiry  time.Duration
	entries map[string]*entry
	now     func() time.Time
	lastGC  time.Time
}

// NewPerMinute builds a Keyed limiter allowing perMinute events per minute
// with the given burst. perMinute <= 0 disables limiting.
func NewPerMinute(perMinute, burst int, expiry time.Duration) *Keyed {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if burst <= 0 {
		burst = 1
	}
	return &Keyed{
		limit:   limit,
		burst:   burst,
		expiry:  expiry,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow reports whether an event for key may happen now.
func (k *Keyed) Allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	k.evict(now)

	e, ok := k.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// evict drops idle keys at most once per expiry window. Caller holds mu.
func (k *Keyed) evict(now time.Time) {
	if k.expiry <= 0 || now.Sub(k.lastGC) < k.expiry {
		return
	}
	k.lastGC = now
	for key, e := range k.entries {
		if now.Sub(e.lastSeen) > k.expiry {
			delete(k.entries, key)
		}
	}
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
