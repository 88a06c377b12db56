package cache

import (
	"context"
	"sync"
	"time"

	"home-energy-audit/internal/models"
)

const (
	// DefaultMaxEntries bounds the in-memory cache.
	DefaultMaxEntries = 10000

	// sweepInterval is the minimum time between expiry sweeps run from Set.
	sweepInterval = time.Minute
)

type entry struct {
	report    *models.AuditReport
	storedAt  time.Time
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Memory is an in-process TTL cache. Expired entries are reclaimed by a sweep
// from Set, and the oldest entry is evicted once maxEntries is reached.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

// NewMemory creates an empty in-memory cache holding up to DefaultMaxEntries reports.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), maxEntries: DefaultMaxEntries, now: time.Now}
}

// WithClock overrides the clock used for expiry.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// WithMaxEntries overrides the entry bound. n <= 0 keeps the default.
func (m *Memory) WithMaxEntries(n int) *Memory {
	if n > 0 {
		m.maxEntries = n
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) (*models.AuditReport, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	now := m.now()
	if !e.expired(now) {
		return e.report, true, nil
	}

	m.mu.Lock()
	// A concurrent Set may have refreshed the key since the read.
	if current, ok := m.entries[key]; ok && current.expired(now) {
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return nil, false, nil
}

// Set stores a report. A ttl <= 0 never expires.
func (m *Memory) Set(_ context.Context, key string, report *models.AuditReport, ttl time.Duration) error {
	now := m.now()
	e := entry{report: report, storedAt: now}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.entries[key]
	full := !exists && len(m.entries) >= m.maxEntries
	if full || now.Sub(m.lastSweep) >= sweepInterval {
		m.sweepLocked(now)
	}
	if !exists && len(m.entries) >= m.maxEntries {
		m.evictOldestLocked()
	}

	m.entries[key] = e
	return nil
}

// sweepLocked drops every expired entry. The caller holds the write lock.
func (m *Memory) sweepLocked(now time.Time) {
	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
		}
	}
	m.lastSweep = now
}

// evictOldestLocked drops the entry stored first. The caller holds the write lock.
func (m *Memory) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for key, e := range m.entries {
		if !found || e.storedAt.Before(oldest) {
			oldestKey, oldest, found = key, e.storedAt, true
		}
	}
	if found {
		delete(m.entries, oldestKey)
	}
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
