package site

import (
	"testing"
	"time"
)

func TestLoginLimiterAllowsUpToMax(t *testing.T) {
	l := NewLoginLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("attempt beyond max should be denied")
	}
}

func TestLoginLimiterPerIP(t *testing.T) {
	l := NewLoginLimiter(1, time.Minute)

	if !l.Allow("10.0.0.1") {
		t.Fatal("first IP should be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Error("first IP should now be blocked")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("a different IP should not be affected")
	}
}

func TestLoginLimiterWindowExpiry(t *testing.T) {
	l := NewLoginLimiter(1, 50*time.Millisecond)

	if !l.Allow("10.0.0.1") {
		t.Fatal("first attempt should be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("second attempt inside window should be denied")
	}
	time.Sleep(80 * time.Millisecond)
	if !l.Allow("10.0.0.1") {
		t.Error("attempt after window expiry should be allowed")
	}
}
