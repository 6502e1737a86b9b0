package mandel

// Complex-plane window sampled by a Grid. Grid columns interpolate
// linearly across [WindowMinRe, WindowMaxRe] and rows across
// [WindowMinIm, WindowMaxIm], both endpoints inclusive.
const (
	WindowMinRe = -2.0
	WindowMaxRe = 1.0
	WindowMinIm = -1.0
	WindowMaxIm = 1.0
)

// EscapeRadiusSq is the squared escape threshold. Once an orbit's squared
// norm exceeds this value the orbit is guaranteed to diverge.
const EscapeRadiusSq = 4.0

// PointAt maps the grid coordinate (x, y) to its complex-plane sample
// point. x must be in [0, width) and y in [0, height), with width and
// height at least 2; the dispatch harness validates this before any
// kernel invocation runs.
func PointAt(x, y, width, height int) (re, im float64) {
	re = float64(x)*(WindowMaxRe-WindowMinRe)/float64(width-1) + WindowMinRe
	im = float64(y)*(WindowMaxIm-WindowMinIm)/float64(height-1) + WindowMinIm
	return re, im
}

// EscapeTimeAt returns the 1-based iteration at which the orbit of
// c = (re, im) is first known to diverge, or 0 if the squared norm never
// exceeds EscapeRadiusSq within iterationBound iterations.
//
// The orbit z ← z² + c starts at z = 0 and is evaluated on explicit
// float64 components. EscapeTimeAt is a total function: it cannot fail,
// so it is safe to run on execution lanes that have no error channel.
func EscapeTimeAt(re, im float64, iterationBound int) int {
	var zr, zi float64
	for i := 1; i <= iterationBound; i++ {
		t := zr*zr - zi*zi + re
		zi = 2*zr*zi + im
		zr = t
		if zr*zr+zi*zi > EscapeRadiusSq {
			return i
		}
	}
	return 0
}

// EscapeTime evaluates the grid point (x, y) of a width×height grid:
// PointAt followed by EscapeTimeAt.
func EscapeTime(x, y, width, height, iterationBound int) int {
	re, im := PointAt(x, y, width, height)
	return EscapeTimeAt(re, im, iterationBound)
}
