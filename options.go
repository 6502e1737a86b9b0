package mandel

// EngineOption configures a CPUEngine during creation.
//
// Example:
//
//	// GOMAXPROCS workers
//	eng := mandel.NewCPUEngine()
//
//	// Fixed worker count
//	eng := mandel.NewCPUEngine(mandel.WithWorkers(4))
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for CPU engine creation.
type engineOptions struct {
	workers int
}

// defaultEngineOptions returns the default engine options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		workers: 0, // GOMAXPROCS at Init
	}
}

// WithWorkers fixes the number of pool workers the engine starts on Init.
// Zero or a negative count selects GOMAXPROCS.
func WithWorkers(n int) EngineOption {
	return func(o *engineOptions) {
		o.workers = n
	}
}
