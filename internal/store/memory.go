package store

import (
	"context"
	"sync"
	"time"
)

// DefaultMemoryCapacity is how many runs a MemoryStore keeps by default.
const DefaultMemoryCapacity = 100

// MemoryStore is a fixed-size ring of the most recent runs. Once full, each
// save evicts the oldest run.
type MemoryStore struct {
	mu    sync.RWMutex
	runs  []Run
	next  int
	count int
}

// NewMemoryStore keeps at most capacity runs.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{runs: make([]Run, capacity)}
}

func (m *MemoryStore) SaveRun(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.runs[m.next] = run
	m.next = (m.next + 1) % len(m.runs)
	if m.count < len(m.runs) {
		m.count++
	}
	return nil
}

func (m *MemoryStore) ListRuns(_ context.Context, limit int) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit = min(normalizeLimit(limit), m.count)
	out := make([]Run, 0, limit)
	for i := 1; i <= limit; i++ {
		out = append(out, m.at(i))
	}
	return out, nil
}

func (m *MemoryStore) GetRun(_ context.Context, id string) (Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := 1; i <= m.count; i++ {
		if r := m.at(i); r.ID == id {
			return r, nil
		}
	}
	return Run{}, ErrNotFound
}

func (m *MemoryStore) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]Run, 0, m.count)
	for i := m.count; i >= 1; i-- {
		if r := m.at(i); !r.StartedAt.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	pruned := int64(m.count - len(kept))

	clear(m.runs)
	copy(m.runs, kept)
	m.count = len(kept)
	m.next = len(kept) % len(m.runs)
	return pruned, nil
}

// at returns the i-th most recent run, 1-based. Callers hold the lock.
func (m *MemoryStore) at(i int) Run {
	n := len(m.runs)
	return m.runs[((m.next-i)%n+n)%n]
}

var _ Store = (*MemoryStore)(nil)
