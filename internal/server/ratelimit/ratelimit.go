// Package ratelimit counts requests per key in fixed windows.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether one more request for key is allowed. When it is
// not, retryAfter tells how long until the window resets.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// MemoryLimiter is a per-process fixed-window limiter.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	items map[string]*rateEntry
}

type rateEntry struct {
	count int
	reset time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		items:  make(map[string]*rateEntry),
	}
}

func (rl *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.items[key]
	if !ok || now.After(entry.reset) {
		entry = &rateEntry{count: 0, reset: now.Add(rl.window)}
		rl.items[key] = entry
		rl.sweep(now)
	}
	entry.count++

	if entry.count > rl.limit {
		return false, entry.reset.Sub(now), nil
	}
	return true, 0, nil
}

// sweep drops expired windows. Callers hold mu.
func (rl *MemoryLimiter) sweep(now time.Time) {
	for k, e := range rl.items {
		if now.After(e.reset) {
			delete(rl.items, k)
		}
	}
}

// Unlimited allows every request. It is used when rate limiting is off.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, time.Duration, error) {
	return true, 0, nil
}
