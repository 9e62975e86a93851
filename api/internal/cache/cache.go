// Package cache is the key-value layer used for cache-aside reads of search results
// and delivered media handles.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Store - кэш с TTL. Отсутствие ключа не ошибка: ok == false.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Operation names used as the first key component.
const (
	OpSearch = "search"
	OpMedia  = "media"
)

// Key строит канонический ключ: операция + JSON аргументов. encoding/json сортирует
// ключи map, поэтому одинаковые аргументы дают одинаковый ключ.
func Key(op string, args ...any) string {
	b, err := json.Marshal(args)
	if err != nil {
		return op + ":" + fmt.Sprint(args...)
	}
	return op + ":" + string(b)
}

// GetJSON reads and decodes a cached value. A value that no longer decodes is
// reported as a miss so the caller recomputes it.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var zero T
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, false, nil
	}
	return v, true, nil
}

func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	return s.Set(ctx, key, raw, ttl)
}
