package identity

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e memoryEntry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[string]memoryEntry[Snapshot]
	states    map[string]memoryEntry[string]
	now       func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]memoryEntry[Snapshot]),
		states:    make(map[string]memoryEntry[string]),
		now:       time.Now,
	}
}

func (m *MemoryStore) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *MemoryStore) SaveSnapshot(_ context.Context, token string, s *Snapshot, ttl time.Duration) error {
	if s == nil {
		return m.DeleteSnapshot(context.Background(), token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[token] = memoryEntry[Snapshot]{value: *s, expiresAt: m.deadline(ttl)}
	return nil
}

// LoadSnapshot returns a fresh copy on every call, like a remote store would.
func (m *MemoryStore) LoadSnapshot(_ context.Context, token string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.snapshots[token]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	if e.expired(m.now()) {
		delete(m.snapshots, token)
		return nil, ErrSnapshotNotFound
	}
	s := e.value
	return &s, nil
}

func (m *MemoryStore) DeleteSnapshot(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, token)
	return nil
}

func (m *MemoryStore) SaveState(_ context.Context, state, returnTo string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state] = memoryEntry[string]{value: returnTo, expiresAt: m.deadline(ttl)}
	return nil
}

func (m *MemoryStore) ConsumeState(_ context.Context, state string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.states[state]
	if !ok {
		return "", ErrInvalidState
	}
	delete(m.states, state)
	if e.expired(m.now()) {
		return "", ErrInvalidState
	}
	return e.value, nil
}

var _ Store = (*MemoryStore)(nil)
