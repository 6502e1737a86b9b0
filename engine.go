package mandel

import "fmt"

// Engine is an execution context for the dispatch harness.
//
// An engine schedules one kernel invocation per grid point, blocks until
// all invocations complete, and returns the populated DivergenceMap. The
// caller constructs and injects the engine explicitly; there is no global
// auto-selected backend, so tests can substitute SerialEngine (or a mock)
// for any parallel implementation.
type Engine interface {
	// Name identifies the engine in logs and wrapped errors
	// (e.g. "serial", "cpu", "wgpu").
	Name() string

	// Init acquires the engine's execution resources. Call it once
	// before the first Evaluate.
	Init() error

	// Close releases the engine's resources. Safe to call multiple times.
	Close()

	// Evaluate computes the divergence map for a grid and iteration
	// bound. The harness has already enforced all preconditions;
	// implementations may assume width ≥ 2, height ≥ 2 and
	// 1 ≤ iterationBound ≤ MaxInt32.
	Evaluate(g Grid, iterationBound int) (*DivergenceMap, error)
}

// Evaluate runs the escape-time kernel for every point of g on the given
// engine and returns the populated DivergenceMap.
//
// All preconditions are enforced here, before any engine work is
// scheduled. On success every map slot has been written exactly once by
// exactly one kernel invocation. On failure no map is returned: there are
// no partial results, no degraded modes, and no retries.
func Evaluate(eng Engine, g Grid, iterationBound int) (*DivergenceMap, error) {
	if eng == nil {
		return nil, fmt.Errorf("%w: nil engine", ErrEngineUnavailable)
	}
	if err := validate(g, iterationBound); err != nil {
		return nil, err
	}

	Logger().Debug("dispatching evaluation",
		"engine", eng.Name(),
		"width", g.Width,
		"height", g.Height,
		"iteration_bound", iterationBound)

	m, err := eng.Evaluate(g, iterationBound)
	if err != nil {
		return nil, fmt.Errorf("mandel: %s engine: %w", eng.Name(), err)
	}
	return m, nil
}
