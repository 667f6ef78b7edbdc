package trace

import (
	"fmt"
	"image/color"
	"strings"

	"strokeplot/pkg/colorutil"
)

// Color identifies one of the pen colors the plotter carries.
type Color int

const (
	Red Color = iota
	Green
	Blue
	numColors
)

// Protocol tokens sent with CHANGE_COLOR.
var colorTokens = [numColors]string{
	Red:   "RED",
	Green: "GREEN",
	Blue:  "BLUE",
}

// Pure triples. A pixel belongs to a color only on an exact match.
var colorValues = [numColors]color.RGBA{
	Red:   colorutil.Red,
	Green: colorutil.Green,
	Blue:  colorutil.Blue,
}

// AllColors lists every color in enumeration order.
func AllColors() []Color {
	return []Color{Red, Green, Blue}
}

// DefaultColorOrder returns the order colors are traced in when none is configured.
func DefaultColorOrder() []Color {
	return AllColors()
}

// Valid reports whether c is a member of the enumeration.
func (c Color) Valid() bool {
	return c >= 0 && c < numColors
}

// Token returns the protocol token for the color, e.g. "RED".
func (c Color) Token() string {
	if !c.Valid() {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return colorTokens[c]
}

func (c Color) String() string {
	return c.Token()
}

// RGBA returns the pure triple that defines the color in input images.
func (c Color) RGBA() color.RGBA {
	return colorValues[c]
}

// Hex returns the display value, e.g. "#ff0000".
func (c Color) Hex() string {
	return colorutil.Hex(colorValues[c])
}

// ParseColor parses a protocol token, case-insensitively.
func ParseColor(s string) (Color, error) {
	token := strings.ToUpper(strings.TrimSpace(s))
	for i, t := range colorTokens {
		if t == token {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownColor, int(c))
	}
	return []byte(colorTokens[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ValidateOrder checks that an explicit color order names each color at most once.
func ValidateOrder(order []Color) error {
	if len(order) == 0 {
		return ErrEmptyColorOrder
	}
	var seen [numColors]bool
	for _, c := range order {
		if !c.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownColor, int(c))
		}
		if seen[c] {
			return fmt.Errorf("%w: %s", ErrDuplicateColor, c)
		}
		seen[c] = true
	}
	return nil
}
