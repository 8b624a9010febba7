package notifications

import (
	"context"
	"sync"
)

// MemoryStorage keeps notifications in process. Suitable for a single instance.
type MemoryStorage struct {
	mu    sync.Mutex
	items map[string][]Notification
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string][]Notification)}
}

func (s *MemoryStorage) Create(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[n.Recipient] = append(s.items[n.Recipient], n)
	return nil
}

func (s *MemoryStorage) Take(_ context.Context, recipient string) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.items[recipient]
	delete(s.items, recipient)
	return pending, nil
}

func (s *MemoryStorage) Delete(_ context.Context, recipient string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, recipient)
	return nil
}

var _ Storage = (*MemoryStorage)(nil)
