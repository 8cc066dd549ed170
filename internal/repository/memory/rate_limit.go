package memory

import (
	"context"
	"sync"
	"time"

	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
)

// Ensure memRateLimit implements repository.RateLimitStore.
var _ repository.RateLimitStore = (*memRateLimit)(nil)

type windowEntry struct {
	count int64
	start time.Time
}

type memRateLimit struct {
	mu        sync.Mutex
	entries   map[string]*windowEntry
	lastPrune time.Time
	now       func() time.Time
}

// NewMemoryRateLimitStore creates a per-process fixed-window counter.
// A nil now defaults to time.Now.
func NewMemoryRateLimitStore(now func() time.Time) repository.RateLimitStore {
	if now == nil {
		now = time.Now
	}
	return &memRateLimit{
		entries: make(map[string]*windowEntry),
		now:     now,
	}
}

func (m *memRateLimit) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.prune(now, window)

	entry, ok := m.entries[key]
	if !ok || now.Sub(entry.start) >= window {
		m.entries[key] = &windowEntry{count: 1, start: now}
		return 1, nil
	}
	entry.count++
	return entry.count, nil
}

// prune drops finished windows at most once per window. Callers must hold m.mu.
func (m *memRateLimit) prune(now time.Time, window time.Duration) {
	if now.Sub(m.lastPrune) < window {
		return
	}
	for key, entry := range m.entries {
		if now.Sub(entry.start) >= window {
			delete(m.entries, key)
		}
	}
	m.lastPrune = now
}
