package ratelimit

import (
	"math"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Fixed-window token bucket: the full capacity becomes available again at the
// start of each window. Buckets are created on first use per key and never
// torn down.
type tokenBucket struct {
	mu          sync.Mutex
	tokens      int
	windowStart time.Time
}

var buckets = cmap.New[*tokenBucket]()

// Take consumes one token for key. remaining is the token count left after a
// successful take; retryAfter the whole seconds until the window refills when
// the take was denied.
func Take(key string, capacity int, window time.Duration) (allowed bool, remaining int, retryAfter int) {
	return take(key, capacity, window, time.Now())
}

func take(key string, capacity int, window time.Duration, now time.Time) (bool, int, int) {
	bucket, _ := buckets.Get(key)
	if bucket == nil {
		bucket = &tokenBucket{tokens: capacity, windowStart: now}
		if !buckets.SetIfAbsent(key, bucket) {
			bucket, _ = buckets.Get(key)
		}
	}

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	if now.Sub(bucket.windowStart) >= window {
		bucket.tokens = capacity
		bucket.windowStart = now
	}
	if bucket.tokens > 0 {
		bucket.tokens--
		return true, bucket.tokens, 0
	}
	wait := bucket.windowStart.Add(window).Sub(now).Seconds()
	retryAfter := int(math.Ceil(wait))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return false, 0, retryAfter
}

// Reset drops all buckets.
func Reset() {
	buckets.Clear()
}
