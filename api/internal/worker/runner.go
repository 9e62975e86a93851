// Package worker runs search jobs on a pool of goroutines with a bounded retry
// policy for transport failures.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"avbot/api/internal/metrics"
)

var errPanic = errors.New("worker: handler panic")

// Runner pulls jobs from a Queue and drives each through
// PENDING -> RUNNING -> {SUCCESS | RETRY(n) | FAILED}.
type Runner struct {
	queue    Queue
	handler  Handler
	notifier FailureNotifier
	log      zerolog.Logger

	workers    int
	timeout    time.Duration
	retryDelay time.Duration
	maxRetries int
	retryOn    []error
}

type Option func(*Runner)

func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithTimeout задаёт мягкий дедлайн одной попытки; истечение считается транспортным сбоем.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

func WithRetryDelay(d time.Duration) Option {
	return func(r *Runner) { r.retryDelay = d }
}

func WithMaxRetries(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.maxRetries = n
		}
	}
}

// WithRetryOn lists the sentinel errors that mark a failure as transient.
func WithRetryOn(errs ...error) Option {
	return func(r *Runner) { r.retryOn = append(r.retryOn, errs...) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func New(q Queue, h Handler, n FailureNotifier, opts ...Option) *Runner {
	r := &Runner{
		queue:      q,
		handler:    h,
		notifier:   n,
		log:        zerolog.Nop(),
		workers:    4,
		timeout:    60 * time.Second,
		retryDelay: 2 * time.Second,
		maxRetries: 2,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Submit ставит задачу в очередь и сразу возвращается.
func (r *Runner) Submit(ctx context.Context, job Job) (Job, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.Attempt = 0
	if err := r.queue.Push(ctx, job); err != nil {
		return job, fmt.Errorf("submit job: %w", err)
	}
	r.log.Debug().Str("job_id", job.ID).Int64("query_id", job.QueryID).Str("state", string(StatePending)).Msg("job queued")
	return job, nil
}

// Run starts the pool and blocks until ctx is done or the queue is closed.
func (r *Runner) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.workers; i++ {
		g.Go(func() error { return r.loop(gctx) })
	}
	return g.Wait()
}

func (r *Runner) loop(ctx context.Context) error {
	for {
		job, err := r.queue.Pop(ctx)
		switch {
		case err == nil:
			r.Execute(ctx, job)
		case errors.Is(err, ErrQueueClosed), ctx.Err() != nil:
			return nil
		case errors.Is(err, ErrMalformedJob):
			metrics.JobsTotal.WithLabelValues("dropped").Inc()
			r.log.Error().Err(err).Msg("job dropped")
		default:
			r.log.Error().Err(err).Msg("queue pop failed")
			if !sleep(ctx, time.Second) {
				return nil
			}
		}
	}
}

// Execute runs one job to a terminal state. FAILED notifies the user exactly once.
func (r *Runner) Execute(ctx context.Context, job Job) State {
	start := time.Now()
	defer func() { metrics.JobDuration.Observe(time.Since(start).Seconds()) }()

	log := r.log.With().Str("job_id", job.ID).Int64("query_id", job.QueryID).Int64("chat_id", job.ChatID).Logger()

	for attempt := 0; ; attempt++ {
		job.Attempt = attempt
		log.Debug().Int("attempt", attempt).Str("state", string(StateRunning)).Msg("job running")

		err := r.invoke(ctx, job)
		if err == nil {
			metrics.JobsTotal.WithLabelValues(string(StateSuccess)).Inc()
			log.Info().Int("attempt", attempt).Dur("took", time.Since(start)).Msg("job done")
			return StateSuccess
		}

		if !r.transient(err) || attempt >= r.maxRetries {
			log.Error().Err(err).Int("attempt", attempt).Msg("job failed")
			return r.fail(ctx, job)
		}

		metrics.JobRetries.Inc()
		log.Warn().Err(err).Int("attempt", attempt).Dur("delay", r.retryDelay).Str("state", string(StateRetry)).Msg("job retry")
		if !sleep(ctx, r.retryDelay) {
			log.Warn().Msg("shutdown during retry backoff")
			return r.fail(ctx, job)
		}
	}
}

func (r *Runner) fail(ctx context.Context, job Job) State {
	metrics.JobsTotal.WithLabelValues(string(StateFailed)).Inc()
	if r.notifier == nil {
		return StateFailed
	}
	// уведомление уходит даже при остановке процесса
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := r.notifier.NotifyFailure(nctx, job); err != nil {
		r.log.Error().Err(err).Str("job_id", job.ID).Msg("failure notification not delivered")
	}
	return StateFailed
}

// invoke runs the handler under the soft deadline and turns a panic into an error.
func (r *Runner) invoke(ctx context.Context, job Job) (err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", errPanic, p)
		}
	}()
	err = r.handler.Process(ctx, job)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = &timeoutError{err: err}
	}
	return err
}

func (r *Runner) transient(err error) bool {
	if errors.Is(err, errPanic) {
		return false
	}
	var te *timeoutError
	if errors.As(err, &te) {
		return true
	}
	for _, target := range r.retryOn {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type timeoutError struct{ err error }

func (e *timeoutError) Error() string { return "soft timeout: " + e.err.Error() }
func (e *timeoutError) Unwrap() error { return e.err }

// sleep ждёт d или отмену ctx; false - контекст закончился.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
