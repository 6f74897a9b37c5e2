package slackapi

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Slack grants chat.postMessage roughly one message per second per channel,
// independent of the method tiers.
const (
	postInterval = time.Second
	postBurst    = 3
	readBurst    = 10
)

// limit is one GCRA bucket: calls are spaced interval apart on average, and
// up to burst may go back to back.
type limit struct {
	interval time.Duration
	burst    int
	tat      time.Time // theoretical arrival time of the next call
}

// reserve books the next slot and returns how long the caller must wait for it.
func (l *limit) reserve(now time.Time) time.Duration {
	if l.tat.Before(now) {
		l.tat = now
	}
	tolerance := time.Duration(l.burst-1) * l.interval
	delay := l.tat.Sub(now) - tolerance
	l.tat = l.tat.Add(l.interval)
	if delay < 0 {
		return 0
	}
	return delay
}

// RateLimiter spaces Web API calls per bucket key and honours Retry-After
// pauses reported by Slack, which apply to every bucket.
type RateLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*limit
	newBucket   func(key string) *limit
	pausedUntil time.Time
	now         func() time.Time
}

// NewRateLimiter allows readsPerMinute conversations.replies calls (Slack
// tier 3 is 50) and one post per second per channel.
func NewRateLimiter(readsPerMinute int) *RateLimiter {
	if readsPerMinute <= 0 {
		readsPerMinute = 50
	}
	readInterval := time.Minute / time.Duration(readsPerMinute)
	return &RateLimiter{
		buckets: make(map[string]*limit),
		newBucket: func(key string) *limit {
			if isPostKey(key) {
				return &limit{interval: postInterval, burst: postBurst}
			}
			return &limit{interval: readInterval, burst: readBurst}
		},
		now: time.Now,
	}
}

func postKey(channel string) string { return "chat.postMessage:" + channel }

func isPostKey(key string) bool { return strings.HasPrefix(key, "chat.postMessage:") }

// Wait blocks until a call under key may proceed or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context, key string) error {
	rl.mu.Lock()
	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = rl.newBucket(key)
		rl.buckets[key] = b
	}
	delay := b.reserve(now)
	if pause := rl.pausedUntil.Sub(now); pause > delay {
		delay = pause
	}
	rl.mu.Unlock()

	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Pause holds every call for d, as Slack asks with Retry-After on a 429.
func (rl *RateLimiter) Pause(d time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if until := rl.now().Add(d); until.After(rl.pausedUntil) {
		rl.pausedUntil = until
	}
}
