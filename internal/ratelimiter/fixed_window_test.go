package ratelimiter

import (
	"testing"
	"time"
)

func TestFixedWindowLimiter(t *testing.T) {
	rl := NewFixedWindowLimiter(2, 50*time.Millisecond)

	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Fatal("first request should be allowed")
	}
	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Fatal("second request should be allowed")
	}

	ok, retryAfter := rl.Allow("10.0.0.1")
	if ok {
		t.Fatal("third request should be denied")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected a positive retry-after, got %v", retryAfter)
	}

	// Another client is counted separately.
	if ok, _ := rl.Allow("10.0.0.2"); !ok {
		t.Fatal("a different client should be allowed")
	}

	time.Sleep(60 * time.Millisecond)
	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Fatal("request after the window should be allowed again")
	}
}
