// Package sensor samples ambient light from low resolution camera frames.
package sensor

import (
	"image"
)

// Luma weights (Rec. 709).
const (
	WeightR = 0.2126
	WeightG = 0.7152
	WeightB = 0.0722
)

// Frame is a small RGBA pixel buffer, row-major, 4 bytes per pixel.
type Frame struct {
	Width, Height int
	Pix           []uint8
}

// NewFrame allocates a zeroed frame.
func NewFrame(w, h int) Frame {
	return Frame{Width: w, Height: h, Pix: make([]uint8, 4*w*h)}
}

// FrameFromRGBA wraps an image.RGBA without copying when its stride is tight.
func FrameFromRGBA(img *image.RGBA) Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if img.Stride == 4*w && b.Min == (image.Point{}) {
		return Frame{Width: w, Height: h, Pix: img.Pix[:4*w*h]}
	}
	f := NewFrame(w, h)
	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(f.Pix[4*w*y:4*w*(y+1)], row[:4*w])
	}
	return f
}

// Fill paints every pixel with one color.
func (f Frame) Fill(r, g, b uint8) {
	for i := 0; i+3 < len(f.Pix); i += 4 {
		f.Pix[i] = r
		f.Pix[i+1] = g
		f.Pix[i+2] = b
		f.Pix[i+3] = 255
	}
}

// Empty reports whether the frame holds no usable pixels.
func (f Frame) Empty() bool {
	return f.Width <= 0 || f.Height <= 0 || len(f.Pix) < 4*f.Width*f.Height
}

// Luma returns the mean luma over every stride-th row and column.
// The second result is false when the frame is empty.
func Luma(f Frame, stride int) (float64, bool) {
	if f.Empty() {
		return 0, false
	}
	if stride < 1 {
		stride = 1
	}

	var sum float64
	count := 0
	for y := 0; y < f.Height; y += stride {
		for x := 0; x < f.Width; x += stride {
			idx := 4 * (x + y*f.Width)
			r, g, b := f.Pix[idx], f.Pix[idx+1], f.Pix[idx+2]
			sum += WeightR*float64(r) + WeightG*float64(g) + WeightB*float64(b)
			count++
		}
	}
	return sum / float64(count), true
}

// Source provides the most recent camera frame without blocking.
// ok is false when no frame is available yet.
type Source interface {
	Latest() (Frame, bool)
}

// Adapter turns frames from a Source into a raw brightness value in [0, 255].
type Adapter struct {
	stride int
	raw    float64
	fresh  bool // last Sample read a new value
}

// NewAdapter creates an adapter starting at the given brightness.
func NewAdapter(initial float64, stride int) *Adapter {
	return &Adapter{raw: initial, stride: stride}
}

// Sample reads the source once. When the source has nothing to offer the
// previous brightness is kept.
func (a *Adapter) Sample(src Source) float64 {
	a.fresh = false
	if src == nil {
		return a.raw
	}
	frame, ok := src.Latest()
	if !ok {
		return a.raw
	}
	if v, ok := Luma(frame, a.stride); ok {
		a.raw = v
		a.fresh = true
	}
	return a.raw
}

// Raw returns the last sampled brightness.
func (a *Adapter) Raw() float64 {
	return a.raw
}

// Fresh reports whether the last Sample produced a new reading.
func (a *Adapter) Fresh() bool {
	return a.fresh
}

// Reset restores the initial brightness.
func (a *Adapter) Reset(initial float64) {
	a.raw = initial
	a.fresh = false
}
