package ratelimit

import (
	"testing"
	"time"
)

func TestTakeConsumesWindow(t *testing.T) {
	Reset()
	now := time.Now()
	window := time.Minute

	for i := 2; i >= 0; i-- {
		allowed, remaining, _ := take("user-1", 3, window, now)
		if !allowed {
			t.Fatalf("take denied with %d tokens expected", i+1)
		}
		if remaining != i {
			t.Errorf("remaining = %d, want %d", remaining, i)
		}
	}

	allowed, _, retryAfter := take("user-1", 3, window, now)
	if allowed {
		t.Fatal("take allowed on empty bucket")
	}
	if retryAfter != 60 {
		t.Errorf("retryAfter = %d, want 60", retryAfter)
	}
}

func TestTakeRefillsAfterWindow(t *testing.T) {
	Reset()
	now := time.Now()
	window := time.Minute

	if allowed, _, _ := take("user-1", 1, window, now); !allowed {
		t.Fatal("first take denied")
	}
	if allowed, _, _ := take("user-1", 1, window, now.Add(30*time.Second)); allowed {
		t.Fatal("take allowed mid-window")
	}
	allowed, remaining, _ := take("user-1", 1, window, now.Add(window))
	if !allowed {
		t.Fatal("take denied after window refill")
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
}

func TestTakeRetryAfterRoundsUp(t *testing.T) {
	Reset()
	now := time.Now()
	window := time.Minute

	take("user-1", 1, window, now)
	_, _, retryAfter := take("user-1", 1, window, now.Add(59500*time.Millisecond))
	if retryAfter != 1 {
		t.Errorf("retryAfter = %d, want 1", retryAfter)
	}
}

func TestTakeKeysAreIndependent(t *testing.T) {
	Reset()
	now := time.Now()
	window := time.Minute

	take("user-1", 1, window, now)
	if allowed, _, _ := take("user-2", 1, window, now); !allowed {
		t.Fatal("other user throttled")
	}
}
