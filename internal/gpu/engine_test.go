//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/mandel"
)

// TestGridParamsBytes tests that gridParams serializes to the uniform
// layout the shader expects.
func TestGridParamsBytes(t *testing.T) {
	p := gridParams{Width: 1152, Height: 768, IterationBound: 100}

	b := p.bytes()
	if len(b) != paramsSize {
		t.Fatalf("expected %d bytes, got %d", paramsSize, len(b))
	}

	// Width at offset 0: 1152 = 0x0480 little-endian.
	if b[0] != 0x80 || b[1] != 0x04 || b[2] != 0 || b[3] != 0 {
		t.Errorf("Width not at correct position: % x", b[0:4])
	}
	// Height at offset 4: 768 = 0x0300.
	if b[4] != 0x00 || b[5] != 0x03 || b[6] != 0 || b[7] != 0 {
		t.Errorf("Height not at correct position: % x", b[4:8])
	}
	// IterationBound at offset 8.
	if b[8] != 100 || b[9] != 0 || b[10] != 0 || b[11] != 0 {
		t.Errorf("IterationBound not at correct position: % x", b[8:12])
	}
	// Padding at offset 12 stays zero.
	if b[12] != 0 || b[13] != 0 || b[14] != 0 || b[15] != 0 {
		t.Errorf("Padding not zero: % x", b[12:16])
	}
}

func TestEngineName(t *testing.T) {
	e := &Engine{}
	if got := e.Name(); got != "gpu" {
		t.Errorf("Name() = %q, want %q", got, "gpu")
	}
}

// TestEvaluateBeforeInit tests that an uninitialized engine refuses work
// instead of crashing on a nil device.
func TestEvaluateBeforeInit(t *testing.T) {
	e := &Engine{}

	_, err := e.Evaluate(mandel.Grid{Width: 16, Height: 16}, 10)
	if err == nil {
		t.Fatal("Evaluate on uninitialized engine succeeded")
	}
	if !errors.Is(err, mandel.ErrEngineUnavailable) {
		t.Errorf("error = %v, want ErrEngineUnavailable", err)
	}
}

// TestCloseWithoutInit tests that Close is safe on a zero engine.
func TestCloseWithoutInit(t *testing.T) {
	e := &Engine{}
	e.Close()
	e.Close()

	if e.Ready() {
		t.Error("Ready() = true after Close")
	}
}

// TestSetDeviceProviderRejectsBadProvider tests the provider type checks.
func TestSetDeviceProviderRejectsBadProvider(t *testing.T) {
	e := &Engine{}

	tests := []struct {
		name     string
		provider any
	}{
		{name: "nil provider", provider: nil},
		{name: "plain struct", provider: struct{}{}},
		{name: "wrong method set", provider: "not a provider"},
		{name: "nil hal handles", provider: nilHalProvider{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.SetDeviceProvider(tt.provider)
			if err == nil {
				t.Fatal("SetDeviceProvider accepted a bad provider")
			}
			if !errors.Is(err, mandel.ErrEngineUnavailable) {
				t.Errorf("error = %v, want ErrEngineUnavailable", err)
			}
		})
	}
}

// nilHalProvider has the right method set but returns nothing usable.
type nilHalProvider struct{}

func (nilHalProvider) HalDevice() any { return nil }
func (nilHalProvider) HalQueue() any  { return nil }

// TestEngineInitAndEvaluate runs a small grid on real hardware. Skipped
// when no Vulkan adapter is present.
func TestEngineInitAndEvaluate(t *testing.T) {
	e := &Engine{}
	if err := e.Init(); err != nil {
		t.Skipf("GPU not available: %v", err)
	}
	defer e.Close()

	if e.DeviceName() == "" {
		t.Error("DeviceName() empty after successful Init")
	}

	g := mandel.Grid{Width: 64, Height: 48}
	const bound = 50

	m, err := e.Evaluate(g, bound)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if m.Width() != g.Width || m.Height() != g.Height {
		t.Fatalf("map is %dx%d, want %dx%d", m.Width(), m.Height(), g.Width, g.Height)
	}

	// Every count stays within [0, bound].
	for i, v := range m.Counts() {
		if v < 0 || v > bound {
			t.Fatalf("count[%d] = %d outside [0, %d]", i, v, bound)
		}
	}

	// Far corners sit outside the escape radius and diverge on the
	// first iteration regardless of float width.
	if got := m.At(0, 0); got != 1 {
		t.Errorf("corner (0,0) diverged at %d, want 1", got)
	}
	if got := m.At(0, g.Height-1); got != 1 {
		t.Errorf("corner (0,%d) diverged at %d, want 1", g.Height-1, got)
	}

	// Repeated dispatch on the same device is deterministic.
	m2, err := e.Evaluate(g, bound)
	if err != nil {
		t.Fatalf("second Evaluate failed: %v", err)
	}
	c1, c2 := m.Counts(), m2.Counts()
	for i := range c1 {
		if c1[i] != c2[i] {
			t.Fatalf("counts differ at %d across runs: %d vs %d", i, c1[i], c2[i])
		}
	}
}

// TestEngineInitIdempotent tests that repeated Init calls are no-ops.
func TestEngineInitIdempotent(t *testing.T) {
	e := &Engine{}
	if err := e.Init(); err != nil {
		t.Skipf("GPU not available: %v", err)
	}
	defer e.Close()

	name := e.DeviceName()
	if err := e.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if got := e.DeviceName(); got != name {
		t.Errorf("DeviceName changed across Init calls: %q vs %q", name, got)
	}
}
