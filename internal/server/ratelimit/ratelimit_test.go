package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_WindowAndReset(t *testing.T) {
	rl := NewMemoryLimiter(2, time.Minute)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, _, err := rl.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	now = start.Add(10 * time.Second)
	ok, retry, err := rl.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 50*time.Second, retry)

	ok, _, _ = rl.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "keys are independent")

	now = start.Add(61 * time.Second)
	ok, _, _ = rl.Allow(ctx, "1.2.3.4")
	assert.True(t, ok, "new window after reset")
}

func TestMemoryLimiter_SweepsExpired(t *testing.T) {
	rl := NewMemoryLimiter(1, time.Second)
	start := time.Now()
	now := start
	rl.now = func() time.Time { return now }

	_, _, _ = rl.Allow(context.Background(), "a")
	now = start.Add(2 * time.Second)
	_, _, _ = rl.Allow(context.Background(), "b")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	_, stale := rl.items["a"]
	assert.False(t, stale)
}

type fakeRedis struct {
	counts    map[string]int64
	expires   map[string]time.Duration
	err       error
	expireErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeRedis) Expire(_ context.Context, key string, exp time.Duration) *redis.BoolCmd {
	if f.expireErr != nil {
		return redis.NewBoolResult(false, f.expireErr)
	}
	f.expires[key] = exp
	return redis.NewBoolResult(true, nil)
}

// TTL reports -1 for a key without expiry, as Redis does.
func (f *fakeRedis) TTL(_ context.Context, key string) *redis.DurationCmd {
	exp, ok := f.expires[key]
	if !ok {
		return redis.NewDurationResult(-1, nil)
	}
	return redis.NewDurationResult(exp-time.Second, nil)
}

func TestRedisLimiter(t *testing.T) {
	fr := newFakeRedis()
	rl := NewRedisLimiter(fr, 2, time.Minute)
	ctx := context.Background()

	ok, _, err := rl.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, fr.expires["gophtodo:ratelimit:ip"], "expiry set on first hit")

	ok, _, _ = rl.Allow(ctx, "ip")
	assert.True(t, ok)

	ok, retry, err := rl.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 59*time.Second, retry)
}

func TestRedisLimiter_RepairsMissingExpiry(t *testing.T) {
	fr := newFakeRedis()
	fr.expireErr = errors.New("timeout")
	rl := NewRedisLimiter(fr, 1, time.Minute)
	ctx := context.Background()
	key := "gophtodo:ratelimit:ip"

	ok, _, err := rl.Allow(ctx, "ip")
	require.Error(t, err)
	assert.True(t, ok)
	_, hasExpiry := fr.expires[key]
	require.False(t, hasExpiry)

	fr.expireErr = nil
	ok, retry, err := rl.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)
	assert.Equal(t, time.Minute, fr.expires[key], "expiry restored on the over-limit path")

	// Redis drops the key once the restored expiry passes.
	delete(fr.counts, key)
	delete(fr.expires, key)
	ok, _, err = rl.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	fr := newFakeRedis()
	fr.err = errors.New("connection refused")
	rl := NewRedisLimiter(fr, 1, time.Minute)

	ok, _, err := rl.Allow(context.Background(), "ip")
	require.Error(t, err)
	assert.True(t, ok)
}

func TestDial_BadURL(t *testing.T) {
	_, err := Dial(context.Background(), "not a url")
	require.Error(t, err)
}

func TestUnlimited(t *testing.T) {
	var rl Limiter = Unlimited{}
	for i := 0; i < 1000; i++ {
		ok, _, err := rl.Allow(context.Background(), "ip")
		require.NoError(t, err)
		require.True(t, ok)
	}
}
