// Package parallel provides the worker pool that spreads scanline work
// across CPU cores for the cpu engine.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// bandsPerWorker controls how many row bands ForRows cuts per worker.
// More bands give work stealing finer grain at the cost of more closures.
const bandsPerWorker = 4

// Pool is a pool of goroutines for data-parallel row evaluation.
//
// Row ranges are split into contiguous bands, one task per band, and the
// bands are distributed across per-worker queues. Workers steal from
// other queues when their own runs dry, which keeps cores busy when some
// bands are slower than others (rows crossing the Mandelbrot set's
// interior iterate to the bound on every point).
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	// workers is the number of worker goroutines.
	workers int

	// queues holds per-worker band queues. Each worker primarily pulls
	// from its own queue but can steal from the others.
	queues []chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// NewPool creates a pool with the given number of workers. If workers is
// zero or negative, GOMAXPROCS is used. Workers start immediately and
// wait for work.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * bandsPerWorker
	if queueSize < 8 {
		queueSize = 8
	}

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

// worker is the main loop for each worker goroutine.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.queues[id]

	for {
		select {
		case <-p.done:
			// Drain remaining bands before exiting.
			p.drain(myQueue)
			return

		case band := <-myQueue:
			if band != nil {
				band()
			}

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
			} else {
				// Nothing to steal anywhere, block on own queue.
				select {
				case <-p.done:
					p.drain(myQueue)
					return
				case band := <-myQueue:
					if band != nil {
						band()
					}
				}
			}
		}
	}
}

// drain executes all remaining bands in a queue.
func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case band := <-queue:
			if band != nil {
				band()
			}
		default:
			return
		}
	}
}

// steal attempts to take a band from another worker's queue.
// Returns nil if no work is available.
func (p *Pool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}

		select {
		case band := <-p.queues[i]:
			return band
		default:
			// Queue is empty, try next.
		}
	}
	return nil
}

// ForRows splits [0, rows) into contiguous bands and calls fn once for
// every row, spread across the pool. It blocks until every row has been
// processed exactly once. If the pool is closed or rows is not positive,
// ForRows is a no-op.
func (p *Pool) ForRows(rows int, fn func(row int)) {
	if rows <= 0 || fn == nil || !p.running.Load() {
		return
	}

	bands := p.workers * bandsPerWorker
	if bands > rows {
		bands = rows
	}
	bandSize := (rows + bands - 1) / bands

	var completion sync.WaitGroup
	task := 0
	for start := 0; start < rows; start += bandSize {
		lo, hi := start, start+bandSize
		if hi > rows {
			hi = rows
		}

		completion.Add(1)
		band := func() {
			defer completion.Done()
			for y := lo; y < hi; y++ {
				fn(y)
			}
		}

		select {
		case p.queues[task%p.workers] <- band:
		case <-p.done:
			// Pool is closing mid-dispatch. Run the band on the caller
			// so every row is still written exactly once.
			band()
		}
		task++
	}

	completion.Wait()
}

// Close gracefully shuts down the pool. It stops accepting new work,
// waits for all queued bands to complete, and then stops all workers.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		// Already closed.
		return
	}

	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Queued returns the total number of bands currently queued. This is an
// approximation as queues can change while iterating.
func (p *Pool) Queued() int {
	total := 0
	for _, q := range p.queues {
		total += len(q)
	}
	return total
}
