//go:build !nogpu

package gpu

import (
	_ "embed"
)

// Embedded WGSL shader sources.

//go:embed shaders/mandelbrot.wgsl
var mandelbrotShaderWGSL string

// MandelbrotShaderSource returns the WGSL source for the escape-time
// kernel. Exposed for validation tooling and tests.
func MandelbrotShaderSource() string {
	return mandelbrotShaderWGSL
}
