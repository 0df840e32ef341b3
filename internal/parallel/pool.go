// Package parallel runs shading work on a fixed set of goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned when work is submitted to a closed pool.
var ErrPoolClosed = errors.New("parallel: pool closed")

// WorkerPool is a pool of goroutines for parallel shading.
//
// Each worker owns a queue. An idle worker steals from the other queues
// before blocking on its own, which evens out bands that take longer
// than others.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			drain(own)
			return
		case fn := <-own:
			fn()
			continue
		default:
		}

		if fn := p.steal(id); fn != nil {
			fn()
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case fn := <-own:
			fn()
		}
	}
}

// drain runs whatever is left in a queue after shutdown.
func drain(queue chan func()) {
	for {
		select {
		case fn := <-queue:
			fn()
		default:
			return
		}
	}
}

// steal takes one item from another worker's queue, or returns nil.
func (p *WorkerPool) steal(id int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case fn := <-p.queues[(id+i)%p.workers]:
			return fn
		default:
		}
	}
	return nil
}

// ExecuteAll distributes work round-robin and waits for every item to
// finish. Items not yet started when ctx is cancelled are skipped, and
// ctx.Err() is returned. Nil items are ignored.
func (p *WorkerPool) ExecuteAll(ctx context.Context, work []func()) error {
	if !p.running.Load() {
		return ErrPoolClosed
	}
	if len(work) == 0 {
		return ctx.Err()
	}

	var wg sync.WaitGroup
	for i, fn := range work {
		if fn == nil {
			continue
		}
		wg.Add(1)
		wrapped := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			fn()
		}

		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-ctx.Done():
			wg.Done()
		case <-p.done:
			wg.Done()
		}
	}
	wg.Wait()

	if !p.running.Load() && ctx.Err() == nil {
		return ErrPoolClosed
	}
	return ctx.Err()
}

// Close stops the pool after queued work has run. Close is idempotent.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
