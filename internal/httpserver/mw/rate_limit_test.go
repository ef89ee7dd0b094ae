package mw

import (
	"testing"
	"time"
)

func TestLimiterBurstThenRefill(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 60}) // 1 token/s
	now := time.Now()

	if ok, _ := l.allow("1.2.3.4", now); !ok {
		t.Fatal("first request should pass")
	}
	if ok, _ := l.allow("1.2.3.4", now); !ok {
		t.Fatal("second request should pass (burst)")
	}
	ok, retry := l.allow("1.2.3.4", now)
	if ok {
		t.Fatal("third request should be limited")
	}
	if retry < 1 {
		t.Fatalf("retry = %d, want >= 1", retry)
	}

	// One token refilled after a second.
	if ok, _ := l.allow("1.2.3.4", now.Add(time.Second)); !ok {
		t.Fatal("request after refill should pass")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1})
	now := time.Now()

	if ok, _ := l.allow("1.1.1.1", now); !ok {
		t.Fatal("first ip should pass")
	}
	if ok, _ := l.allow("1.1.1.1", now); ok {
		t.Fatal("first ip should now be limited")
	}
	if ok, _ := l.allow("2.2.2.2", now); !ok {
		t.Fatal("second ip should have its own bucket")
	}
}
