// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"fmt"
	"math"
)

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for PointInt{X: x, Y: y}.
func Pt(x, y int) PointInt {
	return PointInt{X: x, Y: y}
}

// ToFloat returns the point as an (x, y) float pair.
func (p PointInt) ToFloat() []float64 {
	return []float64{float64(p.X), float64(p.Y)}
}

// Distance returns the Euclidean distance to another point.
func (p PointInt) Distance(other PointInt) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func (p PointInt) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Range is a closed integer interval [Min, Max] along one axis.
type Range struct {
	Min int `json:"min" toml:"min"`
	Max int `json:"max" toml:"max"`
}

// Span returns Max - Min.
func (r Range) Span() int {
	return r.Max - r.Min
}

// Contains returns true if v lies within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Extent is a pair of axis ranges describing a rectangular coordinate space.
type Extent struct {
	X Range `json:"x" toml:"x"`
	Y Range `json:"y" toml:"y"`
}

// NewExtent creates an Extent spanning [0,width] x [0,height].
func NewExtent(width, height int) Extent {
	return Extent{X: Range{Max: width}, Y: Range{Max: height}}
}

// RectInt represents a rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Bounds returns the bounding rectangle of a point sequence.
// An empty sequence yields the zero rectangle.
func Bounds(points []PointInt) RectInt {
	if len(points) == 0 {
		return RectInt{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	return RectInt{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Union returns the smallest rectangle containing both rectangles.
func (r RectInt) Union(other RectInt) RectInt {
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	x2 := max(r.X+r.Width, other.X+other.Width)
	y2 := max(r.Y+r.Height, other.Y+other.Height)
	return RectInt{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}
