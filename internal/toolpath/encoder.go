package toolpath

import (
	"fmt"
	"strings"

	"strokeplot/internal/trace"
)

// FirstPointPolicy decides whether a stroke's first point is sent again
// after the pen goes down.
type FirstPointPolicy int

const (
	// SkipFirstPoint emits the first point once, before TOOL_DOWN.
	SkipFirstPoint FirstPointPolicy = iota
	// RevisitFirstPoint emits every point after TOOL_DOWN, including the first.
	RevisitFirstPoint
)

var firstPointNames = [...]string{
	SkipFirstPoint:    "skip",
	RevisitFirstPoint: "revisit",
}

func (p FirstPointPolicy) String() string {
	if p < 0 || int(p) >= len(firstPointNames) {
		return fmt.Sprintf("FirstPointPolicy(%d)", int(p))
	}
	return firstPointNames[p]
}

// ParseFirstPointPolicy parses "skip" or "revisit".
func ParseFirstPointPolicy(s string) (FirstPointPolicy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range firstPointNames {
		if n == name {
			return FirstPointPolicy(i), nil
		}
	}
	return 0, fmt.Errorf("toolpath: unknown first-point policy %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *FirstPointPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseFirstPointPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p FirstPointPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// EncodeOptions configures command generation.
type EncodeOptions struct {
	FirstPoint FirstPointPolicy
	Home       bool // Finish with MOVE_TO 0 0 and TOOL_DOWN before END
}

// Encode walks trajectories in order and emits the command stream.
//
// A CHANGE_COLOR is emitted before the first stroke and at every color
// boundary, never otherwise. Each stroke is MOVE_TO(first), TOOL_DOWN, a
// MOVE_TO per remaining point, TOOL_UP. END is always the last command.
func Encode(trajectories []trace.Trajectory, opts EncodeOptions) []Command {
	cmds := make([]Command, 0, estimateLen(trajectories))

	var lastColor trace.Color
	haveColor := false

	for _, t := range trajectories {
		if !haveColor || t.Color() != lastColor {
			cmds = append(cmds, ChangeColor(t.Color()))
			lastColor = t.Color()
			haveColor = true
		}

		first := t.First()
		cmds = append(cmds, MoveTo(first.X, first.Y), ToolDown())

		start := 1
		if opts.FirstPoint == RevisitFirstPoint {
			start = 0
		}
		for i := start; i < t.Len(); i++ {
			p := t.At(i)
			cmds = append(cmds, MoveTo(p.X, p.Y))
		}

		cmds = append(cmds, ToolUp())
	}

	if opts.Home {
		cmds = append(cmds, MoveTo(0, 0), ToolDown())
	}
	return append(cmds, End())
}

func estimateLen(trajectories []trace.Trajectory) int {
	n := 3
	for _, t := range trajectories {
		n += t.Len() + 4
	}
	return n
}
