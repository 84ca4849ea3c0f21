// Package parallel provides the worker pool that runs hit-test chunks.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of goroutines executing submitted work.
//
// Each worker owns a queue and steals from its neighbours when the queue
// runs dry, so a chunk of slow features on one worker does not stall the
// whole batch.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// closing is held for reading while Run enqueues and for writing while
	// Close stops the workers, so no item lands in a queue after its
	// worker has drained it.
	closing sync.RWMutex
}

// NewPool creates and starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &Pool{
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

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			run(work)
		default:
			if stolen := p.steal(id); stolen != nil {
				run(stolen)
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				run(work)
			}
		}
	}
}

func run(work func()) {
	if work != nil {
		work()
	}
}

// drain executes whatever is left in a queue at shutdown.
func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			run(work)
		default:
			return
		}
	}
}

// steal takes one item from another worker's queue, or returns nil.
func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run distributes work round-robin across the workers and blocks until
// every item has finished. Items must not panic; callers recover inside
// their own closures.
//
// When the pool is closed, Run executes the work on the calling goroutine
// so callers always get complete results.
func (p *Pool) Run(work []func()) {
	if len(work) == 0 {
		return
	}

	p.closing.RLock()
	if !p.running.Load() {
		p.closing.RUnlock()
		for _, fn := range work {
			run(fn)
		}
		return
	}

	var pending sync.WaitGroup
	pending.Add(len(work))
	for i, fn := range work {
		p.queues[i%p.workers] <- func() {
			defer pending.Done()
			run(fn)
		}
	}
	p.closing.RUnlock()
	pending.Wait()
}

// Close stops the workers after draining queued work. A concurrent Run
// either finishes enqueueing first or runs on its own goroutine.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	p.closing.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.closing.Unlock()
		return
	}
	close(p.done)
	p.closing.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}
