package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChanQueue - очередь в памяти процесса на буферизованном канале.
type ChanQueue struct {
	mu     sync.RWMutex
	ch     chan Job
	closed bool
}

func NewChanQueue(size int) *ChanQueue {
	return &ChanQueue{ch: make(chan Job, size)}
}

func (q *ChanQueue) Push(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ChanQueue) Pop(ctx context.Context) (Job, error) {
	select {
	case job, ok := <-q.ch:
		if !ok {
			return Job{}, ErrQueueClosed
		}
		return job, nil
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}

// Close stops accepting jobs; already queued jobs are still handed out.
func (q *ChanQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	return nil
}

// RedisQueue - очередь в списке Redis: LPUSH на постановку, BRPOP на выборку.
// Позволяет вынести воркеры в отдельный процесс (cmd/worker).
type RedisQueue struct {
	client *redis.Client
	key    string
	poll   time.Duration

	mu     sync.RWMutex
	closed bool
}

const DefaultQueueKey = "avbot:jobs"

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisQueue{client: client, key: key, poll: time.Second}
}

func (q *RedisQueue) isClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *RedisQueue) Push(ctx context.Context, job Job) error {
	if q.isClosed() {
		return ErrQueueClosed
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, raw).Err(); err != nil {
		return fmt.Errorf("redis lpush: %w", err)
	}
	return nil
}

// Pop ждёт задачу короткими BRPOP, чтобы замечать Close и отмену контекста.
func (q *RedisQueue) Pop(ctx context.Context) (Job, error) {
	for {
		if q.isClosed() {
			return Job{}, ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return Job{}, err
		}
		res, err := q.client.BRPop(ctx, q.poll, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return Job{}, ctx.Err()
			}
			return Job{}, fmt.Errorf("redis brpop: %w", err)
		}
		// res = [key, value]
		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return Job{}, fmt.Errorf("%w: %v", ErrMalformedJob, err)
		}
		return job, nil
	}
}

func (q *RedisQueue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	return nil
}
