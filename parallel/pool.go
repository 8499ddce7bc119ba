// Package parallel runs independent jobs, such as work on separate
// pictures or on disjoint row bands of one picture, on a fixed set of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
	CancelFunc func()
)

type Pool struct {
	wg     sync.WaitGroup
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

// Start returns a pool of numWorkers goroutines, or GOMAXPROCS of them when
// numWorkers < 1. With a single worker, jobs run synchronously inside Do.
// Wait(true) stops accepting jobs and waits for the queued ones; the pool
// can not be reused afterwards.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Do: func(f func()) {
			f()
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}
	if numWorkers == 1 {
		return pool
	}

	jobs := make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range jobs {
				f()
			}
		})
	}

	pool.Do = func(f func()) {
		jobs <- f
	}
	pool.Cancel = sync.OnceFunc(func() { close(jobs) })
	pool.Wait = func(done bool) {
		if done {
			pool.Cancel()
		}
		pool.wg.Wait()
	}

	return pool
}

// Bands splits rows [0,height) into at most numWorkers contiguous bands and
// calls fn for each on its own goroutine, returning once all are done.
// fn must only touch rows of its band.
func Bands(height, numWorkers int, fn func(y0, y1 int)) {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	numWorkers = max(min(numWorkers, height), 1)
	rows := (height + numWorkers - 1) / numWorkers

	pool := Start(numWorkers)
	for y0 := 0; y0 < height; y0 += rows {
		pool.Do(func() {
			fn(y0, min(y0+rows, height))
		})
	}
	pool.Wait(true)
}
