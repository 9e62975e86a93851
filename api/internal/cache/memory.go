package cache

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value   []byte
	expires time.Time
}

// MemoryStore - Store в памяти процесса, когда Redis не настроен.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memEntry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		s.mu.Lock()
		if cur, still := s.items[key]; still && cur.expires.Equal(e.expires) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set сохраняет копию значения; ttl <= 0 - без срока.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = e
	s.mu.Unlock()
	return nil
}
