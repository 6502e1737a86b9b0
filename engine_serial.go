package mandel

// SerialEngine evaluates the grid on the calling goroutine in row-major
// order. It holds no resources and is always available, which makes it
// the deterministic baseline for validating parallel engines.
type SerialEngine struct{}

var _ Engine = SerialEngine{}

// Name returns "serial".
func (SerialEngine) Name() string { return "serial" }

// Init is a no-op; the serial engine needs no resources.
func (SerialEngine) Init() error { return nil }

// Close is a no-op.
func (SerialEngine) Close() {}

// Evaluate computes the map point by point on the calling goroutine.
func (SerialEngine) Evaluate(g Grid, iterationBound int) (*DivergenceMap, error) {
	m, err := NewDivergenceMap(g.Width, g.Height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < g.Height; y++ {
		row := m.Row(y)
		for x := range row {
			row[x] = int32(EscapeTime(x, y, g.Width, g.Height, iterationBound))
		}
	}
	return m, nil
}
