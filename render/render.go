// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns divergence maps into images.
//
// The mapping follows the classic presentation of escape-time sets:
// counts are normalized against the map's maximum and drawn as 8-bit
// grayscale, so interior points (count 0) come out black and the
// fastest-escaping points come out white.
package render

import (
	"image"
	"image/png"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/mandel"
)

// Grayscale renders a divergence map as an 8-bit grayscale image.
// Counts scale linearly so the map's maximum maps to white. A map with
// no escaping points renders all black.
func Grayscale(m *mandel.DivergenceMap) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width(), m.Height()))

	max := m.Max()
	if max == 0 {
		return img
	}

	scale := 255.0 / float64(max)
	for y := 0; y < m.Height(); y++ {
		row := m.Row(y)
		for x, v := range row {
			img.Pix[y*img.Stride+x] = uint8(math.Round(float64(v) * scale))
		}
	}
	return img
}

// Downscale reduces an image by an integer factor with Catmull-Rom
// resampling. It is the second half of supersampled rendering: evaluate
// the grid at factor times the target size, then Downscale the result
// by the same factor. A factor of 1 or less returns src unchanged.
func Downscale(src *image.Gray, factor int) *image.Gray {
	if factor <= 1 {
		return src
	}

	b := src.Bounds()
	w, h := b.Dx()/factor, b.Dy()/factor
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// SavePNG writes an image to a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, img)
}
