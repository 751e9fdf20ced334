package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRedisFromURLRejectsBadURL(t *testing.T) {
	if _, err := NewRedisFromURL(context.Background(), "not-a-url://", 3, time.Minute); err == nil {
		t.Fatal("expected parse error")
	}
}

// Runs against a real server only when NOTES_TEST_REDIS_URL is set.
func TestRedisFixedWindow(t *testing.T) {
	url := os.Getenv("NOTES_TEST_REDIS_URL")
	if url == "" {
		t.Skip("NOTES_TEST_REDIS_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const limit = 3
	window := time.Minute
	r, err := NewRedisFromURL(ctx, url, limit, window)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	defer r.Close()

	key := "test:" + uuid.NewString()
	start := time.Now()
	for i := 0; i < limit; i++ {
		d, err := r.Allow(ctx, key)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !d.Allowed || d.Limit != limit || d.Remaining != limit-1-i {
			t.Fatalf("call %d: unexpected decision %+v", i, d)
		}
		if !d.ResetAt.After(start) || d.ResetAt.After(start.Add(window+time.Second)) {
			t.Fatalf("call %d: reset %v outside window from %v", i, d.ResetAt, start)
		}
	}

	d, err := r.Allow(ctx, key)
	if err != nil {
		t.Fatalf("allow over limit: %v", err)
	}
	if d.Allowed || d.Remaining != 0 {
		t.Fatalf("expected denial after %d calls, got %+v", limit, d)
	}
	if !d.ResetAt.After(start) {
		t.Fatalf("expected reset after %v, got %v", start, d.ResetAt)
	}
}
