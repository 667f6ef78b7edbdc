// Package preview renders trajectories for human inspection, as SVG or PNG.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"strokeplot/internal/trace"
	"strokeplot/pkg/geometry"
)

var ErrUnsupportedFormat = errors.New("preview: unsupported output format")

// DefaultPNGWidth is the raster width used by WriteFile for .png output.
const DefaultPNGWidth = 1024

// SVG writes the trajectories as one polyline each, colored by pen, in a
// document whose viewBox is extent. Trajectory space has its origin at the
// bottom-left, so y is flipped back for display.
func SVG(w io.Writer, trajectories []trace.Trajectory, extent geometry.Extent) error {
	width, height := extent.X.Span(), extent.Y.Span()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("preview: empty extent %+v", extent)
	}
	stroke := float64(max(width, height)) / 400
	if stroke < 1 {
		stroke = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" fill="#ffffff"/>`+"\n", width, height)

	for _, t := range trajectories {
		if t.Len() < 2 {
			continue
		}
		b.WriteString(`<polyline fill="none" stroke-linejoin="round" stroke="`)
		b.WriteString(t.Color().Hex())
		fmt.Fprintf(&b, `" stroke-width="%.2f" points="`, stroke)
		for i := 0; i < t.Len(); i++ {
			p := t.At(i)
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d,%d", p.X-extent.X.Min, extent.Y.Max-p.Y)
		}
		b.WriteString(`"/>` + "\n")
	}
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Rasterize renders the trajectories to an RGBA image pixelWidth wide,
// keeping the extent's aspect ratio.
func Rasterize(trajectories []trace.Trajectory, extent geometry.Extent, pixelWidth int) (*image.RGBA, error) {
	var doc bytes.Buffer
	if err := SVG(&doc, trajectories, extent); err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(&doc)
	if err != nil {
		return nil, fmt.Errorf("preview: parse svg: %w", err)
	}

	width := pixelWidth
	height := int(float64(pixelWidth) * float64(extent.Y.Span()) / float64(extent.X.Span()))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("preview: bad raster size %dx%d", width, height)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// WriteFile writes an .svg or .png preview to path.
func WriteFile(path string, trajectories []trace.Trajectory, extent geometry.Extent) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		if err := SVG(&buf, trajectories, extent); err != nil {
			return err
		}
	case ".png":
		img, err := Rasterize(trajectories, extent, DefaultPNGWidth)
		if err != nil {
			return err
		}
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("preview: encode png: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
