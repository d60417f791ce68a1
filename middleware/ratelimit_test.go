package middleware

import "testing"

func TestRateLimiterDeniesBeyondBurst(t *testing.T) {
	rl := NewRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request beyond burst should be denied")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first client's first request should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("first client's second request should be denied")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second client must have its own bucket")
	}
}
