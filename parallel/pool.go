// Package parallel runs independent render jobs on a fixed set of workers.
package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

type (
	Job        func() error
	WorkerFunc func(Job)
	WaitFunc   func() error
)

// Pool hands jobs to its workers through Do. Wait stops accepting jobs,
// blocks until every submitted job returned and joins their errors.
type Pool struct {
	wg      sync.WaitGroup
	running atomic.Int64
	mu      sync.Mutex
	errs    []error
	Do      WorkerFunc
	Wait    WaitFunc
}

// Start launches numWorkers workers; below 1 means one per CPU. A single
// worker runs jobs inline on the caller's goroutine.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{}
	pool.Do = func(job Job) {
		pool.record(job())
	}
	pool.Wait = pool.joined

	if numWorkers > 1 {
		workChan := make(chan Job, numWorkers)

		for range numWorkers {
			pool.running.Add(1)
			pool.wg.Go(func() {
				defer pool.running.Add(-1)
				for job := range workChan {
					pool.record(job())
				}
			})
		}

		pool.Do = func(job Job) {
			workChan <- job
		}

		stop := sync.OnceFunc(func() { close(workChan) })
		pool.Wait = func() error {
			stop()
			pool.wg.Wait()
			return pool.joined()
		}
	}

	return pool
}

// Running reports how many worker goroutines have not exited yet.
func (p *Pool) Running() int {
	return int(p.running.Load())
}

func (p *Pool) record(err error) {
	if err == nil {
		return
	}
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}

func (p *Pool) joined() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}
