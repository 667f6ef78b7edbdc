package transform

import (
	"errors"
	"reflect"
	"testing"

	"strokeplot/internal/trace"
	"strokeplot/pkg/geometry"
)

func TestMapValueBoundariesAreExact(t *testing.T) {
	cases := []struct {
		src, dst geometry.Range
	}{
		{geometry.Range{Min: 0, Max: 640}, geometry.Range{Min: 0, Max: 8000}},
		{geometry.Range{Min: 0, Max: 3}, geometry.Range{Min: 0, Max: 10}},
		{geometry.Range{Min: 7, Max: 1031}, geometry.Range{Min: 100, Max: 7919}},
		{geometry.Range{Min: 0, Max: 1000}, geometry.Range{Min: 0, Max: 1}},
	}
	for _, tc := range cases {
		if got := MapValue(tc.src.Min, tc.src, tc.dst); got != tc.dst.Min {
			t.Fatalf("min: %v->%v got %d", tc.src, tc.dst, got)
		}
		if got := MapValue(tc.src.Max, tc.src, tc.dst); got != tc.dst.Max {
			t.Fatalf("max: %v->%v got %d", tc.src, tc.dst, got)
		}
	}
}

func TestMapValueMonotonic(t *testing.T) {
	src := geometry.Range{Min: 0, Max: 333}
	dst := geometry.Range{Min: 0, Max: 8000}
	prev := MapValue(src.Min, src, dst)
	for v := src.Min + 1; v <= src.Max; v++ {
		got := MapValue(v, src, dst)
		if got < prev {
			t.Fatalf("not monotonic at %d: %d < %d", v, got, prev)
		}
		prev = got
	}
}

func TestMapValueTruncates(t *testing.T) {
	// 1 * 10 / 3 = 3.33 -> 3, 2 * 10 / 3 = 6.66 -> 6
	src := geometry.Range{Min: 0, Max: 3}
	dst := geometry.Range{Min: 0, Max: 10}
	if got := MapValue(1, src, dst); got != 3 {
		t.Fatalf("got %d want 3", got)
	}
	if got := MapValue(2, src, dst); got != 6 {
		t.Fatalf("got %d want 6", got)
	}
}

func TestScalePreservesColorAndOrder(t *testing.T) {
	a, _ := trace.NewTrajectory(trace.Green, []geometry.PointInt{geometry.Pt(0, 0), geometry.Pt(10, 20)})
	b, _ := trace.NewTrajectory(trace.Red, []geometry.PointInt{geometry.Pt(5, 10)})

	src := geometry.NewExtent(10, 20)
	dst := geometry.NewExtent(8000, 4000)
	got, err := Scale([]trace.Trajectory{a, b}, src, dst)
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	if got[0].Color() != trace.Green || got[1].Color() != trace.Red {
		t.Fatalf("colors not preserved")
	}
	want0 := []geometry.PointInt{geometry.Pt(0, 0), geometry.Pt(8000, 4000)}
	if !reflect.DeepEqual(got[0].Points(), want0) {
		t.Fatalf("points: got %v want %v", got[0].Points(), want0)
	}
	if got[1].At(0) != geometry.Pt(4000, 2000) {
		t.Fatalf("midpoint: got %s", got[1].At(0))
	}
	if a.At(1) != geometry.Pt(10, 20) {
		t.Fatalf("input trajectory mutated")
	}
}

func TestScaleDegenerateSource(t *testing.T) {
	_, err := Scale(nil, geometry.NewExtent(0, 10), geometry.NewExtent(100, 100))
	if !errors.Is(err, ErrDegenerateRange) {
		t.Fatalf("expected ErrDegenerateRange, got %v", err)
	}
}
