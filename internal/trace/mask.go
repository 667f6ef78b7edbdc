package trace

import (
	"fmt"
	"image"
	"image/color"
)

// Mask is a per-pixel membership grid for one color, aligned to the
// source image's pixel grid with (0,0) at the top-left.
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

// NewMask creates an all-false mask of the given size.
func NewMask(width, height int) Mask {
	return Mask{Width: width, Height: height, bits: make([]bool, width*height)}
}

// MaskFromRows builds a mask from a row-major grid. All rows must share a length.
func MaskFromRows(rows [][]bool) (Mask, error) {
	if len(rows) == 0 {
		return Mask{}, nil
	}
	m := NewMask(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != m.Width {
			return Mask{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrMaskSizeMismatch, y, len(row), m.Width)
		}
		copy(m.bits[y*m.Width:], row)
	}
	return m, nil
}

// At reports membership at (x, y). Out-of-range coordinates are not members.
func (m Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.bits[y*m.Width+x]
}

// Set marks (x, y) as a member.
func (m Mask) Set(x, y int, v bool) {
	m.bits[y*m.Width+x] = v
}

// Count returns the number of member pixels.
func (m Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Empty reports whether the mask has no member pixels.
func (m Mask) Empty() bool {
	for _, b := range m.bits {
		if b {
			return false
		}
	}
	return true
}

// Threshold renders the mask as a row-major 8-bit buffer, 255 for members
// and 0 elsewhere, the input format the contour tracer expects.
func (m Mask) Threshold() []byte {
	buf := make([]byte, len(m.bits))
	for i, b := range m.bits {
		if b {
			buf[i] = 255
		}
	}
	return buf
}

// Segment builds the membership mask of one color. A pixel is a member iff
// its red, green and blue channels equal the color's pure triple exactly.
// Alpha is ignored.
func Segment(img image.Image, c Color) Mask {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	mask := NewMask(w, h)
	want := c.RGBA()

	// Fast path for the normalized buffers produced by the image loader
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
			for x := 0; x < w; x++ {
				p := row[x*4 : x*4+3]
				if p[0] == want.R && p[1] == want.G && p[2] == want.B {
					mask.bits[y*w+x] = true
				}
			}
		}
		return mask
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			if px.R == want.R && px.G == want.G && px.B == want.B {
				mask.bits[y*w+x] = true
			}
		}
	}
	return mask
}
