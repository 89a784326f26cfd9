// Package pixbuf provides the two pixel layouts a glyph atlas moves
// between: single-channel coverage as produced by the rasterizer, and
// RGBA8 as consumed by the GPU.
//
// Both buffers are tightly described by width, height and stride, so
// the 1-to-4 channel expansion can be tested without any GPU.
package pixbuf

import (
	"errors"
	"fmt"
	"image"
)

// ErrSizeMismatch is returned when a pixel slice does not match the
// dimensions it is wrapped with.
var ErrSizeMismatch = errors.New("pixbuf: buffer size mismatch")

// Coverage is a one-byte-per-texel alpha buffer.
type Coverage struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewCoverage allocates a zeroed coverage buffer.
func NewCoverage(width, height int) *Coverage {
	return &Coverage{
		Width:  width,
		Height: height,
		Stride: width,
		Pix:    make([]byte, width*height),
	}
}

// WrapCoverage views pix as a width×height coverage buffer without
// copying. pix must hold exactly width*height bytes.
func WrapCoverage(width, height int, pix []byte) (*Coverage, error) {
	if width < 0 || height < 0 || len(pix) != width*height {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d coverage", ErrSizeMismatch, len(pix), width, height)
	}
	return &Coverage{Width: width, Height: height, Stride: width, Pix: pix}, nil
}

// Bounds returns the buffer rectangle anchored at the origin.
func (c *Coverage) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Width, c.Height)
}

// At returns the coverage at (x, y), or 0 outside the buffer.
func (c *Coverage) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return 0
	}
	return c.Pix[y*c.Stride+x]
}

// Set stores v at (x, y). Out of range writes are ignored.
func (c *Coverage) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Pix[y*c.Stride+x] = v
}

// Blit copies src into c with its top-left corner at (x, y), clipped to c.
func (c *Coverage) Blit(src *image.Alpha, x, y int) {
	sb := src.Bounds()
	dst := image.Rect(x, y, x+sb.Dx(), y+sb.Dy()).Intersect(c.Bounds())
	for dy := dst.Min.Y; dy < dst.Max.Y; dy++ {
		sy := sb.Min.Y + dy - y
		so := src.PixOffset(sb.Min.X+dst.Min.X-x, sy)
		do := dy*c.Stride + dst.Min.X
		copy(c.Pix[do:do+dst.Dx()], src.Pix[so:so+dst.Dx()])
	}
}

// Grow returns a buffer of the new size holding c's texels at the same
// coordinates. Texels that no longer fit are dropped.
func (c *Coverage) Grow(width, height int) *Coverage {
	n := NewCoverage(width, height)
	w := min(width, c.Width)
	for y := 0; y < min(height, c.Height); y++ {
		copy(n.Pix[y*n.Stride:y*n.Stride+w], c.Pix[y*c.Stride:y*c.Stride+w])
	}
	return n
}

// Clear zeroes every texel.
func (c *Coverage) Clear() {
	clear(c.Pix)
}

// RGBA is a four-bytes-per-texel buffer in R, G, B, A order.
type RGBA struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewRGBA allocates a zeroed RGBA8 buffer.
func NewRGBA(width, height int) *RGBA {
	return &RGBA{
		Width:  width,
		Height: height,
		Stride: width * 4,
		Pix:    make([]byte, width*height*4),
	}
}

// Bounds returns the buffer rectangle anchored at the origin.
func (m *RGBA) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// At returns the four channels at (x, y), or zero outside the buffer.
func (m *RGBA) At(x, y int) [4]uint8 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return [4]uint8{}
	}
	i := y*m.Stride + x*4
	return [4]uint8{m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]}
}

// Image returns an *image.RGBA sharing m's pixels.
func (m *RGBA) Image() *image.RGBA {
	return &image.RGBA{Pix: m.Pix, Stride: m.Stride, Rect: m.Bounds()}
}

// ExpandFrom writes every coverage texel of src inside r into m as four
// identical bytes (R=G=B=A=coverage). Texels outside r are untouched.
//
// src and m must have the same dimensions. r is clipped to the buffer;
// the clipped rectangle is returned.
func (m *RGBA) ExpandFrom(src *Coverage, r image.Rectangle) (image.Rectangle, error) {
	if src.Width != m.Width || src.Height != m.Height {
		return image.Rectangle{}, fmt.Errorf("%w: coverage %dx%d, rgba %dx%d",
			ErrSizeMismatch, src.Width, src.Height, m.Width, m.Height)
	}
	r = r.Intersect(m.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		srow := src.Pix[y*src.Stride+r.Min.X : y*src.Stride+r.Max.X]
		d := y*m.Stride + r.Min.X*4
		for _, v := range srow {
			m.Pix[d] = v
			m.Pix[d+1] = v
			m.Pix[d+2] = v
			m.Pix[d+3] = v
			d += 4
		}
	}
	return r, nil
}

// Region returns a densely packed copy of the texels inside r, row by
// row. r must lie within the buffer.
func (m *RGBA) Region(r image.Rectangle) []byte {
	r = r.Intersect(m.Bounds())
	rowLen := r.Dx() * 4
	out := make([]byte, rowLen*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		s := y*m.Stride + r.Min.X*4
		copy(out[(y-r.Min.Y)*rowLen:], m.Pix[s:s+rowLen])
	}
	return out
}
