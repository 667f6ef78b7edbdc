package toolpath

import (
	"gonum.org/v1/gonum/floats"

	"strokeplot/internal/trace"
	"strokeplot/pkg/geometry"
)

// ColorStats accumulates per-pen figures.
type ColorStats struct {
	Strokes         int
	PenDownDistance float64
}

// Stats summarizes a command stream in device units. The carriage is assumed
// to start at (0,0) with the pen up.
type Stats struct {
	Commands        int
	Strokes         int
	ColorChanges    int
	Moves           int
	PenDownDistance float64
	TravelDistance  float64
	PerColor        map[trace.Color]ColorStats
}

// Summarize walks a command stream and measures how far the pen travels
// down (drawing) and up (repositioning).
func Summarize(cmds []Command) Stats {
	s := Stats{Commands: len(cmds), PerColor: make(map[trace.Color]ColorStats)}

	var down, travel []float64
	pos := geometry.PointInt{}
	penDown := false
	pen := trace.Color(-1)

	for _, c := range cmds {
		switch c.Op() {
		case OpChangeColor:
			s.ColorChanges++
			pen = c.Color()
		case OpToolDown:
			penDown = true
			s.Strokes++
			if pen.Valid() {
				cs := s.PerColor[pen]
				cs.Strokes++
				s.PerColor[pen] = cs
			}
		case OpToolUp:
			penDown = false
		case OpMoveTo:
			s.Moves++
			d := floats.Distance(pos.ToFloat(), c.Point().ToFloat(), 2)
			if penDown {
				down = append(down, d)
				if pen.Valid() {
					cs := s.PerColor[pen]
					cs.PenDownDistance += d
					s.PerColor[pen] = cs
				}
			} else {
				travel = append(travel, d)
			}
			pos = c.Point()
		}
	}

	s.PenDownDistance = floats.Sum(down)
	s.TravelDistance = floats.Sum(travel)
	return s
}
