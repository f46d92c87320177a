package service_test

import (
	"testing"
	"time"

	"github.com/msomdec/lovebridge/internal/service"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTokenBucket_AllowsUpToCapacity(t *testing.T) {
	tb := service.NewTokenBucket(1, 3)
	defer tb.Stop()

	for i := range 3 {
		if !tb.Allow("test-key") {
			t.Fatalf("request %d should be allowed (bucket not yet empty)", i+1)
		}
	}
	if tb.Allow("test-key") {
		t.Fatal("4th request should be denied (bucket empty)")
	}
}

func TestTokenBucket_DifferentKeysAreIndependent(t *testing.T) {
	tb := service.NewTokenBucket(1, 1)
	defer tb.Stop()

	if !tb.Allow("user:1") {
		t.Fatal("user:1 first request should be allowed")
	}
	if tb.Allow("user:1") {
		t.Fatal("user:1 second request should be denied")
	}
	if !tb.Allow("user:2") {
		t.Fatal("user:2 first request should be allowed (independent bucket)")
	}
}

func TestTokenBucket_ZeroRateNeverRefills(t *testing.T) {
	clock := &fakeClock{t: testNow}
	tb := service.NewTokenBucketWithClock(0, 2, clock.now)

	tb.Allow("k")
	tb.Allow("k")
	clock.advance(time.Hour)
	if tb.Allow("k") {
		t.Fatal("third request should be denied (no refill)")
	}
}

func TestTokenBucket_Refills(t *testing.T) {
	clock := &fakeClock{t: testNow}
	tb := service.NewTokenBucketWithClock(2, 2, clock.now)

	tb.Allow("k")
	tb.Allow("k")
	if tb.Allow("k") {
		t.Fatal("expected empty bucket")
	}
	clock.advance(500 * time.Millisecond)
	if !tb.Allow("k") {
		t.Fatal("expected one token after half a second at 2/s")
	}
	if tb.Allow("k") {
		t.Fatal("expected bucket empty again")
	}
}

func TestTokenBucket_PerMinute(t *testing.T) {
	tb := service.PerMinute(3)
	defer tb.Stop()

	for i := range 3 {
		if !tb.Allow("k") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if tb.Allow("k") {
		t.Fatal("4th request within the minute should be denied")
	}
}

func TestTokenBucket_Sweep(t *testing.T) {
	clock := &fakeClock{t: testNow}
	tb := service.NewTokenBucketWithClock(1, 1, clock.now)

	tb.Allow("old")
	clock.advance(11 * time.Minute)
	tb.Allow("fresh")

	if n := tb.Sweep(); n != 1 {
		t.Fatalf("expected 1 idle bucket dropped, got %d", n)
	}
	// A swept key starts over with a full bucket.
	if !tb.Allow("old") {
		t.Fatal("expected swept key to start full")
	}
}

func TestTokenBucket_StopTwice(t *testing.T) {
	tb := service.NewTokenBucket(1, 1)
	tb.Stop()
	tb.Stop()
}
