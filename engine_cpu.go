package mandel

import (
	"fmt"
	"sync"

	"github.com/gogpu/mandel/internal/parallel"
)

// CPUEngine evaluates the grid on a pool of worker goroutines. Rows are
// split into contiguous bands distributed across per-worker queues with
// work stealing, so slow bands (rows crossing the set's interior) do not
// serialize the dispatch.
//
// CPUEngine is safe for concurrent use after Init.
type CPUEngine struct {
	mu      sync.Mutex
	workers int
	pool    *parallel.Pool
}

var _ Engine = (*CPUEngine)(nil)

// NewCPUEngine creates a CPU engine. The worker pool starts on Init.
func NewCPUEngine(opts ...EngineOption) *CPUEngine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &CPUEngine{workers: o.workers}
}

// Name returns "cpu".
func (e *CPUEngine) Name() string { return "cpu" }

// Init starts the worker pool. Init is idempotent: a second call on a
// running engine is a no-op, and an engine can be re-initialized after
// Close.
func (e *CPUEngine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pool != nil {
		return nil
	}
	e.pool = parallel.NewPool(e.workers)
	Logger().Debug("cpu engine initialized", "workers", e.pool.Workers())
	return nil
}

// Close shuts the worker pool down after draining queued work. Safe to
// call multiple times.
func (e *CPUEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pool != nil {
		e.pool.Close()
		e.pool = nil
	}
}

// Workers returns the active worker count, or the configured count
// (0 = GOMAXPROCS) before Init.
func (e *CPUEngine) Workers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pool != nil {
		return e.pool.Workers()
	}
	return e.workers
}

// Evaluate distributes the grid's rows across the pool, one kernel
// invocation per point, and blocks until every row is written.
func (e *CPUEngine) Evaluate(g Grid, iterationBound int) (*DivergenceMap, error) {
	e.mu.Lock()
	pool := e.pool
	e.mu.Unlock()
	if pool == nil || !pool.IsRunning() {
		return nil, fmt.Errorf("%w: cpu engine not initialized", ErrEngineUnavailable)
	}

	m, err := NewDivergenceMap(g.Width, g.Height)
	if err != nil {
		return nil, err
	}
	pool.ForRows(g.Height, func(y int) {
		row := m.Row(y)
		for x := range row {
			row[x] = int32(EscapeTime(x, y, g.Width, g.Height, iterationBound))
		}
	})
	return m, nil
}
