package mandel

import "errors"

// Errors returned by the dispatch harness and its engines. Engines wrap
// them with detail via fmt.Errorf("…: %w", …); callers match categories
// with errors.Is. Every category is fatal: the computation is
// deterministic and stateless, so retrying identical inputs would fail
// identically.
var (
	// ErrInvalidConfig reports a configuration precondition violation:
	// grid width or height below 2, or an iteration bound outside
	// [1, MaxInt32]. Detected before any engine work is scheduled.
	ErrInvalidConfig = errors.New("mandel: invalid configuration")

	// ErrEngineUnavailable reports that no usable execution context
	// exists: a nil or uninitialized engine, or no compatible device.
	ErrEngineUnavailable = errors.New("mandel: execution engine unavailable")

	// ErrAllocation reports that the output region could not be
	// allocated, transferred, or read back.
	ErrAllocation = errors.New("mandel: divergence map allocation failed")
)
