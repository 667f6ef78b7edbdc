package trace

import (
	"fmt"
	"strings"

	"strokeplot/pkg/geometry"

	"gocv.io/x/gocv"
)

// Contour is a traced boundary of one connected mask region, in image
// pixel coordinates (origin top-left, y down).
type Contour []geometry.PointInt

// ContourMode selects which boundaries the tracer reports.
type ContourMode int

const (
	// ContourTree reports outer boundaries and hole boundaries, each as its own contour.
	ContourTree ContourMode = iota
	// ContourExternal reports only the outermost boundary of each region.
	ContourExternal
)

var contourModeNames = [...]string{
	ContourTree:     "tree",
	ContourExternal: "external",
}

func (m ContourMode) String() string {
	if m < 0 || int(m) >= len(contourModeNames) {
		return fmt.Sprintf("ContourMode(%d)", int(m))
	}
	return contourModeNames[m]
}

// ParseContourMode parses "tree" or "external".
func ParseContourMode(s string) (ContourMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range contourModeNames {
		if n == name {
			return ContourMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownContourMode, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ContourMode) UnmarshalText(text []byte) error {
	parsed, err := ParseContourMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m ContourMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m ContourMode) retrieval() (gocv.RetrievalMode, error) {
	switch m {
	case ContourTree:
		return gocv.RetrievalTree, nil
	case ContourExternal:
		return gocv.RetrievalExternal, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownContourMode, int(m))
	}
}

// ExtractContours traces the boundaries of every connected region in the mask.
// Points are unsimplified (every boundary pixel is kept). Contours come back in
// the tracer's scan order; callers must not assume any spatial ordering.
func ExtractContours(mask Mask, mode ContourMode) ([]Contour, error) {
	retrieval, err := mode.retrieval()
	if err != nil {
		return nil, err
	}
	if mask.Width == 0 || mask.Height == 0 || mask.Empty() {
		return nil, nil
	}

	// The tracer works on an 8-bit 0/255 image
	thresh, err := gocv.NewMatFromBytes(mask.Height, mask.Width, gocv.MatTypeCV8U, mask.Threshold())
	if err != nil {
		return nil, fmt.Errorf("failed to build threshold image: %w", err)
	}
	defer thresh.Close()

	found := gocv.FindContours(thresh, retrieval, gocv.ChainApproxNone)
	defer found.Close()

	contours := make([]Contour, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		pts := found.At(i).ToPoints()
		if len(pts) == 0 {
			continue
		}
		contour := make(Contour, len(pts))
		for j, pt := range pts {
			contour[j] = geometry.PointInt{X: pt.X, Y: pt.Y}
		}
		contours = append(contours, contour)
	}

	return contours, nil
}
