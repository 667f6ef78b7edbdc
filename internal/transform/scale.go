// Package transform maps trajectory coordinates between coordinate spaces.
package transform

import (
	"errors"
	"fmt"

	"strokeplot/internal/trace"
	"strokeplot/pkg/geometry"
)

var (
	ErrDegenerateRange = errors.New("transform: source range has zero span")
)

// Mapper maps points from a source extent onto a destination extent,
// each axis independently.
type Mapper struct {
	src geometry.Extent
	dst geometry.Extent
}

// NewMapper creates a Mapper. Both source axes must have a non-zero span.
func NewMapper(src, dst geometry.Extent) (Mapper, error) {
	if src.X.Span() == 0 {
		return Mapper{}, fmt.Errorf("%w: x [%d,%d]", ErrDegenerateRange, src.X.Min, src.X.Max)
	}
	if src.Y.Span() == 0 {
		return Mapper{}, fmt.Errorf("%w: y [%d,%d]", ErrDegenerateRange, src.Y.Min, src.Y.Max)
	}
	return Mapper{src: src, dst: dst}, nil
}

// Source returns the source extent.
func (m Mapper) Source() geometry.Extent { return m.src }

// Destination returns the destination extent.
func (m Mapper) Destination() geometry.Extent { return m.dst }

// Apply maps one point.
func (m Mapper) Apply(p geometry.PointInt) geometry.PointInt {
	return geometry.PointInt{
		X: MapValue(p.X, m.src.X, m.dst.X),
		Y: MapValue(p.Y, m.src.Y, m.dst.Y),
	}
}

// MapValue linearly interpolates v from src into dst:
//
//	dst.Min + (v - src.Min) * (dst.Max - dst.Min) / (src.Max - src.Min)
//
// The result is truncated toward zero. The product is formed before the
// division in 64-bit integers, so src.Min maps to dst.Min and src.Max maps to
// dst.Max exactly. Values outside src are not clamped. src must have a
// non-zero span.
func MapValue(v int, src, dst geometry.Range) int {
	num := int64(v-src.Min) * int64(dst.Span())
	return dst.Min + int(num/int64(src.Span()))
}

// Scale returns new trajectories with every point mapped from src to dst.
// Color and ordering are preserved.
func Scale(trajectories []trace.Trajectory, src, dst geometry.Extent) ([]trace.Trajectory, error) {
	m, err := NewMapper(src, dst)
	if err != nil {
		return nil, err
	}
	return m.ScaleAll(trajectories)
}

// ScaleAll maps every trajectory with m.
func (m Mapper) ScaleAll(trajectories []trace.Trajectory) ([]trace.Trajectory, error) {
	scaled := make([]trace.Trajectory, 0, len(trajectories))
	for i, t := range trajectories {
		mapped, err := t.Map(m.Apply)
		if err != nil {
			return nil, fmt.Errorf("trajectory %d: %w", i, err)
		}
		scaled = append(scaled, mapped)
	}
	return scaled, nil
}
