package trace

import "errors"

var (
	ErrUnknownColor       = errors.New("trace: unknown color")
	ErrDuplicateColor     = errors.New("trace: color listed twice in order")
	ErrEmptyColorOrder    = errors.New("trace: empty color order")
	ErrUnknownContourMode = errors.New("trace: unknown contour mode")
	ErrEmptyContour       = errors.New("trace: empty contour")
	ErrNegativeCoordinate = errors.New("trace: negative coordinate")
	ErrInvalidImageHeight = errors.New("trace: invalid image height")
	ErrMaskSizeMismatch   = errors.New("trace: mask buffer does not match dimensions")
)
