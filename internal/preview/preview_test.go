package preview

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"strokeplot/internal/trace"
	"strokeplot/pkg/geometry"
)

func sample(t *testing.T) []trace.Trajectory {
	t.Helper()
	red, err := trace.NewTrajectory(trace.Red, []geometry.PointInt{
		geometry.Pt(10, 90), geometry.Pt(90, 90), geometry.Pt(90, 10), geometry.Pt(10, 10), geometry.Pt(10, 90),
	})
	if err != nil {
		t.Fatalf("trajectory: %v", err)
	}
	blue, err := trace.NewTrajectory(trace.Blue, []geometry.PointInt{geometry.Pt(0, 0), geometry.Pt(100, 100)})
	if err != nil {
		t.Fatalf("trajectory: %v", err)
	}
	return []trace.Trajectory{red, blue}
}

func TestSVGFlipsYAndColorsStrokes(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, sample(t), geometry.NewExtent(100, 100)); err != nil {
		t.Fatalf("svg: %v", err)
	}
	doc := buf.String()
	if !strings.Contains(doc, `stroke="#ff0000"`) || !strings.Contains(doc, `stroke="#0000ff"`) {
		t.Fatalf("missing pen colors:\n%s", doc)
	}
	// (0,0) in plotter space is the bottom-left corner of the drawing
	if !strings.Contains(doc, `points="0,100 100,0"`) {
		t.Fatalf("y not flipped:\n%s", doc)
	}
}

func TestRasterizeDrawsStrokes(t *testing.T) {
	img, err := Rasterize(sample(t), geometry.NewExtent(100, 100), 200)
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 200 {
		t.Fatalf("size: %v", img.Bounds())
	}
	// Top edge of the red square sits at screen y = 10 units = 20 pixels
	reddish := false
	for x := 40; x < 160; x++ {
		c := img.RGBAAt(x, 20)
		if c.R > 200 && c.G < 100 && c.B < 100 {
			reddish = true
			break
		}
	}
	if !reddish {
		t.Fatalf("expected red stroke along y=20")
	}
}

func TestWriteFileRejectsUnknownFormat(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "out.gif"), sample(t), geometry.NewExtent(100, 100))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWriteFileSVGAndPNG(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plot.svg", "plot.png"} {
		if err := WriteFile(filepath.Join(dir, name), sample(t), geometry.NewExtent(100, 100)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}
