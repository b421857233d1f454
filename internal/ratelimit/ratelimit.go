// Package ratelimit implements fixed-window request counters.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Store increments a counter that expires ttl after its first increment.
type Store interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Policy is one named limit, e.g. "invitation_accept" at 10 per minute.
type Policy struct {
	Name   string
	Window time.Duration
	Limit  int
}

func NewPolicy(name string, window time.Duration, limit int) Policy {
	return Policy{Name: strings.ToLower(strings.TrimSpace(name)), Window: window, Limit: limit}
}

// Enabled reports whether the policy limits anything.
func (p Policy) Enabled() bool {
	return p.Window > 0 && p.Limit > 0
}

// Key namespaces subject (an IP address) under the policy.
func (p Policy) Key(subject string) string {
	return fmt.Sprintf("rl:ip:%s:%s", p.Name, subject)
}

// Allow counts one hit for subject and reports whether it is within the limit.
func (p Policy) Allow(ctx context.Context, store Store, subject string) (bool, int64, error) {
	count, err := store.IncrWithTTL(ctx, p.Key(subject), p.Window)
	if err != nil {
		return false, 0, err
	}
	return count <= int64(p.Limit), count, nil
}

// MemoryStore is a process-local Store for single-instance deployments and
// development without redis.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, entries: map[string]memoryEntry{}}
}

func (m *MemoryStore) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entry, ok := m.entries[key]
	if !ok || (!entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)) {
		entry = memoryEntry{}
		if ttl > 0 {
			entry.expiresAt = now.Add(ttl)
		}
	}
	entry.count++
	m.entries[key] = entry

	if len(m.entries) > 10000 {
		m.sweep(now)
	}
	return entry.count, nil
}

// sweep drops expired windows.
func (m *MemoryStore) sweep(now time.Time) {
	for key, entry := range m.entries {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
}
