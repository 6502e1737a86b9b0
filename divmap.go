package mandel

import (
	"fmt"
	"math"
)

// DivergenceMap is the dense result of one evaluation: one int32 count
// per grid point, row-major (index y*width + x). Entry 0 means the point
// did not diverge within the iteration bound; entry k in [1, bound] means
// the orbit's squared norm first exceeded EscapeRadiusSq at iteration k.
//
// A map is created fresh per evaluation, fully populated by the engine in
// one pass, and owned by the caller afterwards. Counts are stored as
// exactly 4 bytes per entry, on the host and in device buffers alike.
type DivergenceMap struct {
	width  int
	height int
	counts []int32
}

// NewDivergenceMap allocates a zeroed width×height map. It fails with
// ErrAllocation when the element count would overflow the address space.
func NewDivergenceMap(width, height int) (*DivergenceMap, error) {
	if width <= 0 || height <= 0 || width > math.MaxInt/height {
		return nil, fmt.Errorf("%w: %dx%d grid", ErrAllocation, width, height)
	}
	return &DivergenceMap{
		width:  width,
		height: height,
		counts: make([]int32, width*height),
	}, nil
}

// Width returns the number of columns.
func (m *DivergenceMap) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *DivergenceMap) Height() int {
	return m.height
}

// At returns the divergence count of grid point (x, y), or 0 if the
// coordinate lies outside the map.
func (m *DivergenceMap) At(x, y int) int32 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.counts[y*m.width+x]
}

// Row returns the backing slice of row y. Engines write results through
// it; each kernel invocation owns exactly one slot, so rows need no
// synchronization beyond the engine's completion barrier.
func (m *DivergenceMap) Row(y int) []int32 {
	return m.counts[y*m.width : (y+1)*m.width]
}

// Counts returns the raw row-major backing slice.
func (m *DivergenceMap) Counts() []int32 {
	return m.counts
}

// Max returns the largest count in the map. A result of 0 means no point
// diverged within the bound.
func (m *DivergenceMap) Max() int32 {
	var max int32
	for _, v := range m.counts {
		if v > max {
			max = v
		}
	}
	return max
}

// Clone returns a deep copy of the map.
func (m *DivergenceMap) Clone() *DivergenceMap {
	counts := make([]int32, len(m.counts))
	copy(counts, m.counts)
	return &DivergenceMap{width: m.width, height: m.height, counts: counts}
}
