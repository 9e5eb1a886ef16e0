// Package parallel runs independent jobs on a fixed number of workers.
package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
)

// Pool runs jobs on its workers. With a single worker jobs run inline, in
// submission order.
type Pool struct {
	wg      sync.WaitGroup
	work    chan func()
	close   func()
	workers int
}

// Start launches numWorkers workers, or one per CPU when numWorkers < 1.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{workers: numWorkers, close: func() {}}
	if numWorkers == 1 {
		return pool
	}

	pool.work = make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range pool.work {
				f()
			}
		})
	}
	pool.close = sync.OnceFunc(func() { close(pool.work) })

	return pool
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.workers
}

// Do queues f, blocking while every worker is busy. It must not be called
// after Wait(true).
func (p *Pool) Do(f func()) {
	if p.work == nil {
		f()
		return
	}
	p.work <- f
}

// Wait blocks until the workers exit. With done set, no more jobs are
// accepted and Wait returns once the queue is drained.
func (p *Pool) Wait(done bool) {
	if done {
		p.close()
	}
	p.wg.Wait()
}
