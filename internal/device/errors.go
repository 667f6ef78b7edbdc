package device

import (
	"errors"
	"fmt"
)

var (
	ErrDeviceTimeout    = errors.New("device: timed out waiting for terminator")
	ErrSessionBroken    = errors.New("device: session unusable after a failed handshake")
	ErrSessionClosed    = errors.New("device: session closed")
	ErrResponseTooLarge = errors.New("device: response exceeds size limit")
	ErrPortNotFound     = errors.New("device: serial port not found")
)

// TransportError reports a failure of the channel itself: the port could not
// be opened, a write failed, or the stream ended before the terminator.
type TransportError struct {
	Op   string // "open", "write" or "read"
	Line string // Command line in flight, if any
	Err  error
}

func (e *TransportError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("device: %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("device: %s failed during %q: %v", e.Op, e.Line, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
