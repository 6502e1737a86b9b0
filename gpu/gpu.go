//go:build !nogpu

// Package gpu provides the GPU execution engine for escape-time
// evaluation.
//
// The engine is constructed and injected explicitly, never auto-selected:
//
//	eng, err := gpu.NewEngine()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := eng.Init(); err != nil {
//		// No usable adapter. Pick another engine.
//	}
//	defer eng.Close()
//
//	m, err := mandel.Evaluate(eng, mandel.Grid{Width: 1152, Height: 768}, 100)
//
// Init fails with mandel.ErrEngineUnavailable when the Vulkan backend
// or a usable adapter is missing. There is no silent CPU fallback;
// callers that want one check the error and construct
// mandel.NewCPUEngine themselves.
//
// The kernel arithmetic is 32-bit float (WGSL has no f64), so escape
// counts near the set boundary can differ from the float64 CPU
// engines. Repeated runs on the same device are deterministic.
package gpu

import (
	"github.com/gogpu/mandel"
	gpuimpl "github.com/gogpu/mandel/internal/gpu"
)

// Engine evaluates divergence grids with a wgpu/hal compute pipeline.
// It implements mandel.Engine.
type Engine = gpuimpl.Engine

var _ mandel.Engine = (*Engine)(nil)

// Option configures an Engine at construction.
type Option func(*engineConfig)

type engineConfig struct {
	provider DeviceHandle
}

// WithDeviceProvider shares a GPU device owned by the host application
// instead of opening a dedicated one. The provider must also expose
// direct HAL access (HalDevice/HalQueue methods), as gogpu device
// handles do.
func WithDeviceProvider(p DeviceHandle) Option {
	return func(c *engineConfig) { c.provider = p }
}

// NewEngine creates a GPU engine. Without options the engine owns its
// device: Init opens the first discrete or integrated Vulkan adapter it
// finds. With WithDeviceProvider the shared device is adopted right
// away and a later Init is a no-op.
func NewEngine(opts ...Option) (*Engine, error) {
	var cfg engineConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{}
	if cfg.provider != nil {
		if err := e.SetDeviceProvider(cfg.provider); err != nil {
			return nil, err
		}
	}
	return e, nil
}
