// Package dispatch funnels store operations through a fixed set of workers.
//
// Requests are queued on a bounded channel and executed by whichever worker
// is free; each caller waits on its own completion channel. The number of
// workers bounds how many operations touch the database at once.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"commencement-tickets/internal/metrics"
)

var (
	ErrClosed    = errors.New("dispatch: pool closed")
	ErrQueueFull = errors.New("dispatch: queue full")
)

type job struct {
	ctx context.Context
	run func(context.Context)
}

type Pool struct {
	jobs   chan job
	wg     sync.WaitGroup
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPool starts workers goroutines draining a queue of queueSize pending
// requests. Non-positive values fall back to the number of CPUs.
func NewPool(workers, queueSize int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = workers
	}

	p := &Pool{
		jobs:   make(chan job, queueSize),
		logger: logger.With("component", "dispatch"),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}
	p.logger.Info("worker pool started", "workers", workers, "queue", queueSize)
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for j := range p.jobs {
		metrics.DispatchQueueDepth.Dec()
		if err := j.ctx.Err(); err != nil {
			metrics.DispatchJobsTotal.WithLabelValues("abandoned").Inc()
			p.logger.Debug("skipping abandoned request", "worker", id, "error", err)
			continue
		}
		j.run(j.ctx)
	}
}

func (p *Pool) enqueue(ctx context.Context, j job, wait bool) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	if !wait {
		select {
		case p.jobs <- j:
			metrics.DispatchQueueDepth.Inc()
			return nil
		default:
			return ErrQueueFull
		}
	}

	select {
	case p.jobs <- j:
		metrics.DispatchQueueDepth.Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting requests and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

type result[T any] struct {
	val T
	err error
}

// Submit runs fn on a worker and returns its result. It blocks while the queue
// is full and gives up when ctx is done.
func Submit[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	return submit(ctx, p, fn, true)
}

// TrySubmit is like Submit but fails with ErrQueueFull instead of waiting for
// room in the queue.
func TrySubmit[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	return submit(ctx, p, fn, false)
}

func submit[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error), wait bool) (T, error) {
	var zero T
	done := make(chan result[T], 1)

	j := job{ctx: ctx, run: func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				metrics.DispatchJobsTotal.WithLabelValues("panic").Inc()
				p.logger.Error("request panicked", "panic", r)
				done <- result[T]{err: fmt.Errorf("dispatch: request panicked: %v", r)}
			}
		}()
		v, err := fn(ctx)
		metrics.DispatchJobsTotal.WithLabelValues(metrics.Result(err)).Inc()
		done <- result[T]{val: v, err: err}
	}}

	if err := p.enqueue(ctx, j, wait); err != nil {
		return zero, err
	}

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
