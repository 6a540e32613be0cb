package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// SubmissionLimiter decides whether a client may submit another message.
// When it refuses, retryAfter says how long the client should wait.
type SubmissionLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter is a per-key token bucket: limit submissions per window,
// refilled evenly. State is local to the process.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*limiterEntry),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	entry, ok := l.entries[key]
	if !ok {
		every := l.window / time.Duration(l.limit)
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(every), l.limit)}
		l.entries[key] = entry
	}
	entry.lastSeen = now

	r := entry.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, l.window, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

// sweep drops buckets idle for longer than a window; they would be full
// again anyway. Runs at most once per window.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) > l.window {
			delete(l.entries, key)
		}
	}
}

// RedisLimiter is a fixed-window counter shared by every API instance.
type RedisLimiter struct {
	redis     *redis.Client
	keyPrefix string
	limit     int
	window    time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		redis:     client,
		keyPrefix: "contact_rate:",
		limit:     limit,
		window:    window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	rKey := l.keyPrefix + key

	count, err := l.redis.Incr(ctx, rKey).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, rKey, l.window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > int64(l.limit) {
		ttl, err := l.redis.TTL(ctx, rKey).Result()
		if err != nil {
			return false, 0, err
		}
		if ttl <= 0 {
			ttl = l.window
		}
		return false, ttl, nil
	}

	return true, 0, nil
}
