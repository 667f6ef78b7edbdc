// Package image provides input image validation, loading and normalization.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"strokeplot/pkg/geometry"

	"golang.org/x/image/draw"
)

var (
	ErrNotFound             = errors.New("image: file not found")
	ErrUnsupportedExtension = errors.New("image: unsupported file type")
)

// SupportedExtensions lists accepted suffixes. Matching is case-sensitive.
var SupportedExtensions = []string{".png", ".jpg"}

// Layer is a decoded input image, normalized to non-premultiplied 8-bit RGBA.
type Layer struct {
	Path  string       // Original file path
	Image *image.NRGBA // Normalized pixels, origin (0,0)
}

// Validate checks that path names an existing regular file with a supported suffix.
func Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	for _, ext := range SupportedExtensions {
		if strings.HasSuffix(path, ext) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (use one of %s)", ErrUnsupportedExtension, path, strings.Join(SupportedExtensions, ", "))
}

// Load validates, decodes and normalizes the image at path.
func Load(path string) (*Layer, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &Layer{Path: path, Image: Normalize(img)}, nil
}

// Normalize copies img into an NRGBA buffer whose bounds start at (0,0).
// NRGBA input that already starts at the origin is returned as is.
func Normalize(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Extent returns the pixel extent [0,width] x [0,height], the default source
// range for coordinate mapping.
func (l *Layer) Extent() geometry.Extent {
	return geometry.NewExtent(l.Width(), l.Height())
}
