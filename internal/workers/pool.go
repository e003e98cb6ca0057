// Package workers runs jobs on a fixed set of goroutines. The frame server
// uses it to bound how many offscreen renders run at once.
package workers

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrStopped is returned for jobs submitted after Stop.
var ErrStopped = errors.New("workers: pool stopped")

// Pool manages a pool of worker goroutines
type Pool struct {
	numWorkers int
	jobQueue   chan func()
	wg         sync.WaitGroup

	mu      sync.RWMutex
	quit    chan struct{}
	stopped bool
	workers sync.WaitGroup
}

// NewPool creates a pool with n workers. n <= 0 uses the CPU count.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Pool{
		numWorkers: n,
		jobQueue:   make(chan func(), n*2),
		quit:       make(chan struct{}),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.workers.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for {
		select {
		case job := <-p.jobQueue:
			job()
			p.wg.Done()
		case <-p.quit:
			return
		}
	}
}

// Submit queues a job, blocking while the queue is full.
func (p *Pool) Submit(job func()) error {
	return p.SubmitWithContext(context.Background(), job)
}

// SubmitWithContext queues a job that is skipped if ctx is done by the time
// a worker picks it up. It gives up waiting for queue space when ctx ends.
func (p *Pool) SubmitWithContext(ctx context.Context, job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}

	p.wg.Add(1)
	wrapped := func() {
		select {
		case <-ctx.Done():
		default:
			job()
		}
	}
	select {
	case p.jobQueue <- wrapped:
		return nil
	case <-ctx.Done():
		p.wg.Done()
		return ctx.Err()
	}
}

// Do runs job on the pool and waits for it to finish or for ctx to end.
func (p *Pool) Do(ctx context.Context, job func()) error {
	done := make(chan struct{})
	err := p.SubmitWithContext(ctx, func() {
		defer close(done)
		job()
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every queued job has run.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Stop drains queued jobs and shuts the workers down. Later submissions fail
// with ErrStopped.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.wg.Wait()
	close(p.quit)
	p.workers.Wait()
}

// NumWorkers returns the number of workers in the pool
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}
