package mandel

import (
	"testing"
)

// ============================================================================
// Point Mapping Tests
// ============================================================================

func TestPointAtCorners(t *testing.T) {
	// The four grid corners land exactly on the window corners. The
	// mapping constants divide evenly, so comparisons are exact.
	const w, h = 1152, 768

	tests := []struct {
		name   string
		x, y   int
		re, im float64
	}{
		{name: "top left", x: 0, y: 0, re: -2, im: -1},
		{name: "top right", x: w - 1, y: 0, re: 1, im: -1},
		{name: "bottom left", x: 0, y: h - 1, re: -2, im: 1},
		{name: "bottom right", x: w - 1, y: h - 1, re: 1, im: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, im := PointAt(tt.x, tt.y, w, h)
			if re != tt.re || im != tt.im {
				t.Errorf("PointAt(%d, %d) = (%g, %g), want (%g, %g)",
					tt.x, tt.y, re, im, tt.re, tt.im)
			}
		})
	}
}

func TestPointAtInteriorSamples(t *testing.T) {
	// On a 3x3 grid the middle sample splits the window evenly.
	re, im := PointAt(1, 1, 3, 3)
	if re != -0.5 {
		t.Errorf("middle re = %g, want -0.5", re)
	}
	if im != 0 {
		t.Errorf("middle im = %g, want 0", im)
	}
}

func TestPointAtAxesAreIndependent(t *testing.T) {
	// x only moves the real part, y only the imaginary part.
	re1, im1 := PointAt(3, 5, 64, 64)
	re2, im2 := PointAt(3, 9, 64, 64)
	if re1 != re2 {
		t.Errorf("re changed with y: %g vs %g", re1, re2)
	}
	if im1 == im2 {
		t.Error("im did not change with y")
	}
}

// ============================================================================
// Escape Time Tests
// ============================================================================

func TestEscapeTimeAtOriginStaysBounded(t *testing.T) {
	// c = 0 is the fixed point z = 0; it never escapes at any bound.
	for _, bound := range []int{1, 10, 100, 1000} {
		if got := EscapeTimeAt(0, 0, bound); got != 0 {
			t.Errorf("EscapeTimeAt(0, 0, %d) = %d, want 0", bound, got)
		}
	}
}

func TestEscapeTimeAtKnownOrbit(t *testing.T) {
	// c = 1: the orbit is 0, 1, 2, 5. |2|^2 = 4 is not beyond the
	// radius, |5|^2 is, so the third iteration reports divergence.
	if got := EscapeTimeAt(1, 0, 100); got != 3 {
		t.Errorf("EscapeTimeAt(1, 0, 100) = %d, want 3", got)
	}
}

func TestEscapeTimeAtImmediateEscape(t *testing.T) {
	// c = -2-1i jumps past the radius on the very first step, so the
	// count is 1-based from the start.
	if got := EscapeTimeAt(-2, -1, 100); got != 1 {
		t.Errorf("EscapeTimeAt(-2, -1, 100) = %d, want 1", got)
	}
}

func TestEscapeTimeAtRadiusIsNotEscape(t *testing.T) {
	// c = -2 orbits between -2 and 2; the squared norm sits exactly on
	// 4 forever and the comparison is strict, so it never escapes.
	if got := EscapeTimeAt(-2, 0, 1000); got != 0 {
		t.Errorf("EscapeTimeAt(-2, 0, 1000) = %d, want 0", got)
	}
}

func TestEscapeTimeAtRespectsBound(t *testing.T) {
	// c = 0.26 escapes eventually but needs more than a handful of
	// iterations; a tiny budget reports it as bounded.
	if got := EscapeTimeAt(0.26, 0, 2); got != 0 {
		t.Errorf("EscapeTimeAt(0.26, 0, 2) = %d, want 0", got)
	}
	withBigBudget := EscapeTimeAt(0.26, 0, 1000)
	if withBigBudget <= 2 {
		t.Errorf("EscapeTimeAt(0.26, 0, 1000) = %d, want > 2", withBigBudget)
	}
}

func TestEscapeTimeAtEscapeCountIsStable(t *testing.T) {
	// Once a point escapes at iteration k, any bound >= k reports the
	// same k.
	points := []struct{ re, im float64 }{
		{1, 0},
		{-2, -1},
		{0.3, 0.5},
		{-1.5, 0.7},
	}
	for _, pt := range points {
		k := EscapeTimeAt(pt.re, pt.im, 1000)
		if k == 0 {
			continue
		}
		for _, bound := range []int{k, k + 1, k * 10} {
			if got := EscapeTimeAt(pt.re, pt.im, bound); got != k {
				t.Errorf("EscapeTimeAt(%g, %g, %d) = %d, want %d",
					pt.re, pt.im, bound, got, k)
			}
		}
	}
}

func TestEscapeTimeTwoByTwoGrid(t *testing.T) {
	// The smallest legal grid maps straight onto the window corners.
	// With bound 1 the left corners escape immediately, the right
	// corners survive the single iteration.
	want := map[[2]int]int{
		{0, 0}: 1,
		{1, 0}: 0,
		{0, 1}: 1,
		{1, 1}: 0,
	}
	for pos, k := range want {
		if got := EscapeTime(pos[0], pos[1], 2, 2, 1); got != k {
			t.Errorf("EscapeTime(%d, %d, 2, 2, 1) = %d, want %d", pos[0], pos[1], got, k)
		}
	}
}

func TestEscapeTimeRange(t *testing.T) {
	// Every count is either 0 or in [1, bound].
	const bound = 37
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			got := EscapeTime(x, y, 16, 16, bound)
			if got < 0 || got > bound {
				t.Fatalf("EscapeTime(%d, %d) = %d outside [0, %d]", x, y, got, bound)
			}
		}
	}
}
