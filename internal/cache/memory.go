package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sells-group/profilegen/internal/model"
)

// janitorInterval controls how often expired entries are swept.
const janitorInterval = 5 * time.Minute

// Memory is the in-process cache backend.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	stop    chan struct{}
	once    sync.Once
}

// NewMemory creates an in-memory cache with a background janitor.
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]*Entry),
		stop:    make(chan struct{}),
	}
	go m.janitor()
	return m
}

func (m *Memory) Get(_ context.Context, fingerprint string) (*Entry, error) {
	m.mu.RLock()
	entry, ok := m.entries[fingerprint]
	m.mu.RUnlock()

	if !ok || entry.Expired(time.Now()) {
		return nil, ErrMiss
	}
	cp := *entry
	return &cp, nil
}

func (m *Memory) Put(_ context.Context, fingerprint string, result model.GenerationResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()

	m.mu.Lock()
	m.entries[fingerprint] = &Entry{
		Fingerprint: fingerprint,
		Result:      result,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Invalidate(_ context.Context, fingerprint string) error {
	m.mu.Lock()
	delete(m.entries, fingerprint)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for fp, entry := range m.entries {
				if entry.Expired(now) {
					delete(m.entries, fp)
				}
			}
			m.mu.Unlock()
		}
	}
}
