package workerpool

import (
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Pool is a bounded goroutine pool for batch work. Submissions beyond the
// pool size queue up inside ants rather than spawning new goroutines.
type Pool struct {
	pool *ants.Pool
}

// New creates a pool with the given number of workers.
func New(size int) (*Pool, error) {
	if size <= 0 {
		size = 1
	}

	p, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}

	return &Pool{pool: p}, nil
}

// Each runs fn for every index in [0, n) on the pool and blocks until all
// invocations return. fn must do its own error capture; panics inside fn
// are recovered by ants.
func (p *Pool) Each(n int, fn func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		i := i
		if err := p.pool.Submit(func() {
			defer wg.Done()
			fn(i)
		}); err != nil {
			// Pool is released or overloaded; run inline so the batch
			// still completes.
			func() {
				defer wg.Done()
				fn(i)
			}()
		}
	}

	wg.Wait()
}

// Running returns the number of currently running workers.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Release stops the pool and releases its workers.
func (p *Pool) Release() {
	p.pool.Release()
}
