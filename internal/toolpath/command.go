// Package toolpath encodes trajectories into the plotter's command stream.
package toolpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"strokeplot/internal/trace"
	"strokeplot/pkg/geometry"
)

var (
	ErrUnknownKeyword = errors.New("toolpath: unknown command keyword")
	ErrBadArguments   = errors.New("toolpath: bad command arguments")
)

// Op identifies the kind of a Command.
type Op int

const (
	OpToolUp Op = iota
	OpToolDown
	OpMoveTo
	OpChangeColor
	OpEnd
	numOps
)

// Protocol keywords, one per Op.
var opKeywords = [numOps]string{
	OpToolUp:      "TOOL_UP",
	OpToolDown:    "TOOL_DOWN",
	OpMoveTo:      "MOVE_TO",
	OpChangeColor: "CHANGE_COLOR",
	OpEnd:         "END",
}

// Keyword returns the protocol keyword of the op.
func (o Op) Keyword() string {
	if o < 0 || o >= numOps {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opKeywords[o]
}

func (o Op) String() string {
	return o.Keyword()
}

// Command is one plotter instruction. Only MoveTo carries a point and only
// ChangeColor carries a color.
type Command struct {
	op    Op
	to    geometry.PointInt
	color trace.Color
}

func ToolUp() Command { return Command{op: OpToolUp} }
func ToolDown() Command { return Command{op: OpToolDown} }
func End() Command { return Command{op: OpEnd} }

// MoveTo moves the carriage to (x, y) in device units.
func MoveTo(x, y int) Command {
	return Command{op: OpMoveTo, to: geometry.PointInt{X: x, Y: y}}
}

// ChangeColor selects the pen of color c.
func ChangeColor(c trace.Color) Command {
	return Command{op: OpChangeColor, color: c}
}

// Op returns the command kind.
func (c Command) Op() Op { return c.op }

// Point returns the MoveTo target. It is the zero point for other ops.
func (c Command) Point() geometry.PointInt { return c.to }

// Color returns the ChangeColor argument. It is meaningless for other ops.
func (c Command) Color() trace.Color { return c.color }

// Line renders the command as one protocol line without the trailing newline,
// e.g. "MOVE_TO 120 340" or "CHANGE_COLOR RED".
func (c Command) Line() string {
	switch c.op {
	case OpMoveTo:
		return opKeywords[OpMoveTo] + " " + strconv.Itoa(c.to.X) + " " + strconv.Itoa(c.to.Y)
	case OpChangeColor:
		return opKeywords[OpChangeColor] + " " + c.color.Token()
	default:
		return c.op.Keyword()
	}
}

func (c Command) String() string {
	return c.Line()
}

// ParseCommand parses one protocol line back into a Command.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrUnknownKeyword)
	}

	op := Op(-1)
	for i, kw := range opKeywords {
		if kw == fields[0] {
			op = Op(i)
			break
		}
	}

	args := fields[1:]
	switch op {
	case OpToolUp, OpToolDown, OpEnd:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%w: %s takes no arguments", ErrBadArguments, op)
		}
		return Command{op: op}, nil
	case OpMoveTo:
		if len(args) != 2 {
			return Command{}, fmt.Errorf("%w: MOVE_TO needs x and y", ErrBadArguments)
		}
		x, errX := strconv.Atoi(args[0])
		y, errY := strconv.Atoi(args[1])
		if errX != nil || errY != nil {
			return Command{}, fmt.Errorf("%w: MOVE_TO %s %s", ErrBadArguments, args[0], args[1])
		}
		return MoveTo(x, y), nil
	case OpChangeColor:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: CHANGE_COLOR needs a color", ErrBadArguments)
		}
		c, err := trace.ParseColor(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrBadArguments, err)
		}
		return ChangeColor(c), nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownKeyword, fields[0])
	}
}

// Lines renders every command.
func Lines(cmds []Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Line()
	}
	return out
}
