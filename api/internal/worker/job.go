package worker

import (
	"context"
	"errors"
)

// ErrQueueClosed is returned by Pop and Push once the queue is shut down.
var ErrQueueClosed = errors.New("worker: queue closed")

// ErrMalformedJob - из очереди пришла запись, которую не удалось разобрать; она потеряна.
var ErrMalformedJob = errors.New("worker: malformed job")

// Job - одна задача поиска: какую страницу какого запроса показать в каком чате.
type Job struct {
	ID        string `json:"id"`
	ChatID    int64  `json:"chat_id"`
	MessageID int    `json:"message_id"`
	QueryID   int64  `json:"query_id"`
	Page      int    `json:"page"`
	Edit      bool   `json:"edit"`
	Lang      string `json:"lang"`

	// Attempt is zero on the first invocation and counts retries.
	Attempt int `json:"attempt"`
}

// State - состояние задачи в раннере.
type State string

const (
	StatePending State = "pending"
	StateRunning State = "running"
	StateRetry   State = "retry"
	StateSuccess State = "success"
	StateFailed  State = "failed"
)

// Handler выполняет задачу. Ошибки, помеченные как транспортные, повторяются.
type Handler interface {
	Process(ctx context.Context, job Job) error
}

type HandlerFunc func(ctx context.Context, job Job) error

func (f HandlerFunc) Process(ctx context.Context, job Job) error { return f(ctx, job) }

// FailureNotifier сообщает пользователю о провале задачи. Вызывается ровно один раз
// на задачу, перешедшую в FAILED.
type FailureNotifier interface {
	NotifyFailure(ctx context.Context, job Job) error
}

// Queue - очередь задач между транспортом и воркерами.
type Queue interface {
	Push(ctx context.Context, job Job) error
	// Pop blocks until a job is available, the context ends or the queue is closed.
	Pop(ctx context.Context) (Job, error)
	Close() error
}
