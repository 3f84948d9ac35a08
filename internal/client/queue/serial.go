// Package queue provides a single-worker FIFO job queue.
//
// Jobs run one at a time in the order they were enqueued, so a job's side
// effects are always visible to the job after it. The Cart Store pushes every
// mutate-then-refresh pair through one Serial queue.
package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

const defaultBuffer = 64

// ErrStopped is returned for jobs enqueued after, or still queued when, the
// queue's context was cancelled.
var ErrStopped = errors.New("queue: stopped")

// Job is a unit of work. ctx is the context the job was enqueued with.
type Job func(ctx context.Context) error

type task struct {
	ctx    context.Context
	job    Job
	result chan error
}

// Serial runs jobs on one worker goroutine, strictly in enqueue order.
type Serial struct {
	name    string
	tasks   chan task
	stopped chan struct{}
	pending atomic.Int64
	once    sync.Once
	log     zerolog.Logger
}

// NewSerial creates a queue holding up to buffer waiting jobs.
// If buffer <= 0, defaultBuffer is used.
func NewSerial(name string, buffer int, log zerolog.Logger) *Serial {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Serial{
		name:    name,
		tasks:   make(chan task, buffer),
		stopped: make(chan struct{}),
		log:     log,
	}
}

// Start launches the worker. The worker stops when ctx is cancelled; later
// calls to Start are no-ops.
func (s *Serial) Start(ctx context.Context) {
	s.once.Do(func() { go s.run(ctx) })
}

// Do enqueues job and waits for it to finish, returning the job's error.
// If ctx ends while waiting, Do returns ctx.Err() but the job still runs.
func (s *Serial) Do(ctx context.Context, job Job) error {
	t := task{ctx: ctx, job: job, result: make(chan error, 1)}
	if err := s.enqueue(ctx, t); err != nil {
		return err
	}
	select {
	case err := <-t.result:
		return err
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit enqueues job without waiting for it to run. Errors returned by the
// job are logged at warn level.
func (s *Serial) Submit(job Job) error {
	return s.enqueue(context.Background(), task{ctx: context.Background(), job: job})
}

// Pending reports the number of jobs enqueued but not yet finished.
func (s *Serial) Pending() int {
	return int(s.pending.Load())
}

func (s *Serial) enqueue(ctx context.Context, t task) error {
	select {
	case <-s.stopped:
		return ErrStopped
	default:
	}
	s.pending.Add(1)
	select {
	case s.tasks <- t:
		return nil
	case <-s.stopped:
		s.pending.Add(-1)
		return ErrStopped
	case <-ctx.Done():
		s.pending.Add(-1)
		return ctx.Err()
	}
}

func (s *Serial) run(ctx context.Context) {
	defer close(s.stopped)
	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Str("queue", s.name).Int("dropped", s.Pending()).Msg("queue stopped")
			return
		case t := <-s.tasks:
			err := t.job(t.ctx)
			s.pending.Add(-1)
			if t.result != nil {
				t.result <- err
			} else if err != nil {
				s.log.Warn().Err(err).Str("queue", s.name).Msg("background job failed")
			}
		}
	}
}
