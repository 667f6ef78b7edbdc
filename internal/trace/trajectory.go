package trace

import (
	"fmt"

	"strokeplot/pkg/geometry"
)

// Trajectory is one continuous pen stroke: a non-empty point sequence in a
// bottom-left-origin space, tagged with the pen color. It is immutable; the
// accessors never expose the backing slice.
type Trajectory struct {
	color  Color
	points []geometry.PointInt
}

// NewTrajectory validates and copies points into a new Trajectory.
func NewTrajectory(c Color, points []geometry.PointInt) (Trajectory, error) {
	if !c.Valid() {
		return Trajectory{}, fmt.Errorf("%w: %d", ErrUnknownColor, int(c))
	}
	if len(points) == 0 {
		return Trajectory{}, ErrEmptyContour
	}
	for i, p := range points {
		if p.X < 0 || p.Y < 0 {
			return Trajectory{}, fmt.Errorf("%w: point %d is %s", ErrNegativeCoordinate, i, p)
		}
	}
	owned := make([]geometry.PointInt, len(points))
	copy(owned, points)
	return Trajectory{color: c, points: owned}, nil
}

// Color returns the pen color of the stroke.
func (t Trajectory) Color() Color {
	return t.color
}

// Len returns the number of points.
func (t Trajectory) Len() int {
	return len(t.points)
}

// At returns the i-th point.
func (t Trajectory) At(i int) geometry.PointInt {
	return t.points[i]
}

// First returns the starting point of the stroke.
func (t Trajectory) First() geometry.PointInt {
	return t.points[0]
}

// Points returns a copy of the point sequence.
func (t Trajectory) Points() []geometry.PointInt {
	out := make([]geometry.PointInt, len(t.points))
	copy(out, t.points)
	return out
}

// Bounds returns the bounding rectangle of the stroke.
func (t Trajectory) Bounds() geometry.RectInt {
	return geometry.Bounds(t.points)
}

// Map returns a new trajectory of the same color with f applied to every point.
func (t Trajectory) Map(f func(geometry.PointInt) geometry.PointInt) (Trajectory, error) {
	mapped := make([]geometry.PointInt, len(t.points))
	for i, p := range t.points {
		mapped[i] = f(p)
	}
	return NewTrajectory(t.color, mapped)
}

// Flip converts an image row to a bottom-left-origin y coordinate.
// Flip(Flip(y, h), h) == y.
func Flip(y, height int) int {
	return height - y
}

// Build turns the contours of one color into trajectories, flipping every
// point (px, py) to (px, imageHeight-py). Point order and contour order are
// preserved.
func Build(imageHeight int, c Color, contours []Contour) ([]Trajectory, error) {
	if imageHeight < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidImageHeight, imageHeight)
	}

	trajectories := make([]Trajectory, 0, len(contours))
	for i, contour := range contours {
		points := make([]geometry.PointInt, len(contour))
		for j, p := range contour {
			points[j] = geometry.PointInt{X: p.X, Y: Flip(p.Y, imageHeight)}
		}
		t, err := NewTrajectory(c, points)
		if err != nil {
			return nil, fmt.Errorf("contour %d of %s: %w", i, c, err)
		}
		trajectories = append(trajectories, t)
	}
	return trajectories, nil
}

// Clone copies a trajectory list. Trajectories are immutable, so the copies
// share point storage safely.
func Clone(trajectories []Trajectory) []Trajectory {
	out := make([]Trajectory, len(trajectories))
	copy(out, trajectories)
	return out
}
