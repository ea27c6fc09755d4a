package asset

import (
	"runtime"
	"sync"
)

// Scheduler schedules blocking fetch work according to some strategy.
// Implementations can pick the best way to distribute work for a given
// application.
type Scheduler interface {
	// Schedule a piece of work. This method is allowed to block.
	Schedule(func())
}

// FixedWorkerPool implements a simple fixed-size worker pool that lets
// the go runtime schedule work atop some number of goroutines.
//
// The pool minimizes goroutine latency at the cost of keeping the
// configured number of goroutines alive for the lifetime of the pool.
type FixedWorkerPool struct {
	// Workers specifies the number of concurrent workers in this pool.
	// Defaults to NumCPU.
	Workers int
	// queue of work. Unbuffered so it will block if the pool is at
	// capacity.
	queue chan func()
	// once time initialization.
	sync.Once
}

// Schedule work to be executed by the available workers. This is a
// blocking call if all workers are busy.
func (p *FixedWorkerPool) Schedule(work func()) {
	p.Once.Do(func() {
		p.queue = make(chan func())
		if p.Workers <= 0 {
			p.Workers = runtime.NumCPU()
		}
		for ii := 0; ii < p.Workers; ii++ {
			go func() {
				for w := range p.queue {
					if w != nil {
						w()
					}
				}
			}()
		}
	})
	p.queue <- work
}

// SynchronousScheduler runs work inline on the calling goroutine.
// Useful in tests, where completions must be deterministic.
type SynchronousScheduler struct{}

// Schedule runs work immediately.
func (SynchronousScheduler) Schedule(work func()) { work() }
