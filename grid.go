package mandel

import (
	"fmt"
	"math"
)

// Grid fixes the sample resolution of one evaluation: Width columns by
// Height rows, mapped linearly onto the complex-plane window
// [WindowMinRe, WindowMaxRe] × [WindowMinIm, WindowMaxIm].
type Grid struct {
	Width  int
	Height int
}

// Points returns the number of grid points (Width × Height).
func (g Grid) Points() int {
	return g.Width * g.Height
}

// validate checks the kernel preconditions for a grid and iteration
// bound. Both axes need at least two samples so PointAt interpolates
// across the window without dividing by zero, and the bound must fit the
// map's int32 element width.
func validate(g Grid, iterationBound int) error {
	if g.Width < 2 || g.Height < 2 {
		return fmt.Errorf("%w: grid %dx%d, both axes need at least 2 samples", ErrInvalidConfig, g.Width, g.Height)
	}
	if iterationBound < 1 {
		return fmt.Errorf("%w: iteration bound %d, need at least 1", ErrInvalidConfig, iterationBound)
	}
	if iterationBound > math.MaxInt32 {
		return fmt.Errorf("%w: iteration bound %d exceeds int32 range", ErrInvalidConfig, iterationBound)
	}
	return nil
}
