package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"teamhub.app/server/common/metrics"
)

const memoryBackend = "memory"

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a process-local cache. Values are stored JSON-encoded so callers
// never share mutable state with the cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(ctx context.Context, key string, dst any) bool {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		metrics.CacheLookups.WithLabelValues(memoryBackend, "miss").Inc()
		return false
	}
	if !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		if current, ok := m.entries[key]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		metrics.CacheLookups.WithLabelValues(memoryBackend, "miss").Inc()
		return false
	}

	if err := json.Unmarshal(entry.data, dst); err != nil {
		slog.WarnContext(ctx, "cache decode failed", "backend", memoryBackend, "key", key, "error", err)
		metrics.CacheLookups.WithLabelValues(memoryBackend, "error").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues(memoryBackend, "hit").Inc()
	return true
}

func (m *Memory) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "cache encode failed", "backend", memoryBackend, "key", key, "error", err)
		metrics.CacheWriteErrors.WithLabelValues(memoryBackend).Inc()
		return
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{data: data, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}

func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Sweep removes expired entries and returns how many were dropped.
func (m *Memory) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired entries every interval until ctx is done.
func (m *Memory) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					slog.DebugContext(ctx, "cache sweep", "backend", memoryBackend, "removed", n)
				}
			}
		}
	}()
}
