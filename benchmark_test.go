package mandel

import "testing"

// BenchmarkSerialEngine_Evaluate benchmarks single-threaded evaluation
// at various grid sizes.
func BenchmarkSerialEngine_Evaluate(b *testing.B) {
	sizes := []struct {
		name   string
		width  int
		height int
	}{
		{"96x64", 96, 64},
		{"288x192", 288, 192},
		{"1152x768", 1152, 768},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			g := Grid{Width: size.width, Height: size.height}
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Evaluate(SerialEngine{}, g, 100); err != nil {
					b.Fatal(err)
				}
			}
			// Report throughput in map bytes (4 bytes per point).
			b.SetBytes(int64(size.width*size.height) * 4)
		})
	}
}

// BenchmarkCPUEngine_Evaluate benchmarks pooled evaluation at various
// grid sizes.
func BenchmarkCPUEngine_Evaluate(b *testing.B) {
	sizes := []struct {
		name   string
		width  int
		height int
	}{
		{"96x64", 96, 64},
		{"288x192", 288, 192},
		{"1152x768", 1152, 768},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			eng := NewCPUEngine()
			if err := eng.Init(); err != nil {
				b.Fatal(err)
			}
			defer eng.Close()

			g := Grid{Width: size.width, Height: size.height}
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Evaluate(eng, g, 100); err != nil {
					b.Fatal(err)
				}
			}
			b.SetBytes(int64(size.width*size.height) * 4)
		})
	}
}

// BenchmarkCPUEngine_Workers compares worker counts on the classic grid.
func BenchmarkCPUEngine_Workers(b *testing.B) {
	counts := []struct {
		name    string
		workers int
	}{
		{"1_worker", 1},
		{"2_workers", 2},
		{"4_workers", 4},
		{"8_workers", 8},
	}

	for _, wc := range counts {
		b.Run(wc.name, func(b *testing.B) {
			eng := NewCPUEngine(WithWorkers(wc.workers))
			if err := eng.Init(); err != nil {
				b.Fatal(err)
			}
			defer eng.Close()

			g := Grid{Width: 288, Height: 192}
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Evaluate(eng, g, 100); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEscapeTimeAt benchmarks the bare kernel at its two extremes:
// an interior point that burns the whole budget and an exterior point
// that leaves on the first step.
func BenchmarkEscapeTimeAt(b *testing.B) {
	b.Run("interior_full_budget", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if got := EscapeTimeAt(0, 0, 100); got != 0 {
				b.Fatalf("unexpected escape: %d", got)
			}
		}
	})

	b.Run("immediate_escape", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if got := EscapeTimeAt(-2, -1, 100); got != 1 {
				b.Fatalf("unexpected count: %d", got)
			}
		}
	})
}
