// Package mandel computes Mandelbrot escape-time maps over a rectangular
// sample grid of the complex plane.
//
// # Overview
//
// mandel evaluates, for every point of a width×height grid mapped onto the
// window real ∈ [-2, 1], imaginary ∈ [-1, 1], the first iteration at which
// the orbit z ← z² + c is known to diverge (0 if it never escapes within
// the iteration bound). Every grid point is independent, so the evaluation
// is a pure data-parallel map: the package separates the per-point kernel
// from the dispatch harness and lets the caller inject the execution
// engine that runs it.
//
// # Quick Start
//
//	import "github.com/gogpu/mandel"
//
//	eng := mandel.NewCPUEngine()
//	if err := eng.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer eng.Close()
//
//	m, err := mandel.Evaluate(eng, mandel.Grid{Width: 1152, Height: 768}, 100)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(m.At(0, 0)) // divergence iteration of the top-left point
//
// # Engines
//
// Three engines implement the same kernel semantics:
//   - SerialEngine evaluates on the calling goroutine; the deterministic
//     reference used by tests.
//   - CPUEngine spreads scanline bands across a work-stealing worker pool.
//   - gpu.NewEngine (package gpu/) dispatches a WGSL compute kernel through
//     gogpu/wgpu; device arithmetic is single precision.
//
// Engines are injected explicitly into Evaluate; there is no global
// auto-selected backend.
//
// # Output
//
// The DivergenceMap is a dense row-major int32 buffer owned by the caller
// after Evaluate returns. Normalization into a displayable range and image
// encoding live in the render/ package, outside the core evaluator.
package mandel

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
