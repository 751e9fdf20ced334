// Package ratelimit counts requests per client in fixed windows.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Memory keeps per-key counters in process. Expired windows are swept lazily
// while serving Allow, so no goroutine is needed.
type Memory struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	windows   map[string]*memoryWindow
	now       func() time.Time
	nextSweep time.Time
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		window:  window,
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.After(m.nextSweep) {
		for k, w := range m.windows {
			if !now.Before(w.resetAt) {
				delete(m.windows, k)
			}
		}
		m.nextSweep = now.Add(m.window)
	}

	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(m.window)}
		m.windows[key] = w
	}
	w.count++
	return decide(m.limit, w.count, w.resetAt), nil
}

func decide(limit, count int, resetAt time.Time) Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
