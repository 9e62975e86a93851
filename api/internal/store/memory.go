package store

import (
	"context"
	"sync"
	"time"

	"avbot/api/internal/carousel"
)

// PageView - одна запись истории листания.
type PageView struct {
	QueryID int64
	Page    int
	Token   string
	At      time.Time
}

// MemoryStore хранит пользователей и запросы в памяти. Повторяет поведение
// UserRepo и QueryRepo; используется в тестах.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[int64]User
	queries map[int64]SearchQuery
	views   []PageView
	nextID  int64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[int64]User),
		queries: make(map[int64]SearchQuery),
		now:     time.Now,
	}
}

func (m *MemoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *MemoryStore) Ensure(_ context.Context, u User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.users[u.TelegramID]; ok {
		u.ID, u.CreatedAt = cur.ID, cur.CreatedAt
	} else {
		u.ID, u.CreatedAt = m.id(), m.now()
	}
	m.users[u.TelegramID] = u
	return u, nil
}

func (m *MemoryStore) Create(_ context.Context, userID int64, text, numType string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.queries[id] = SearchQuery{ID: id, UserID: userID, Text: text, NumType: numType, CreatedAt: m.now()}
	return id, nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (SearchQuery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sq, ok := m.queries[id]
	if !ok {
		return SearchQuery{}, ErrNotFound
	}
	return sq, nil
}

func (m *MemoryStore) AddPageView(_ context.Context, queryID int64, page int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, PageView{
		QueryID: queryID,
		Page:    page,
		Token:   carousel.Encode(carousel.Token{QueryID: queryID, Page: page}),
		At:      m.now(),
	})
	return nil
}

func (m *MemoryStore) PurgeOlderThan(_ context.Context, age time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-age)
	var n int64
	for id, sq := range m.queries {
		if sq.CreatedAt.Before(cutoff) {
			delete(m.queries, id)
			n++
		}
	}
	kept := m.views[:0]
	for _, v := range m.views {
		if _, ok := m.queries[v.QueryID]; ok {
			kept = append(kept, v)
		}
	}
	m.views = kept
	return n, nil
}

// PageViews returns a copy of the recorded history.
func (m *MemoryStore) PageViews() []PageView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PageView(nil), m.views...)
}
