package device

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// Open opens a serial port at baud (8N1) and returns a settled Session on it.
func Open(ctx context.Context, portName string, baud int, opts Options) (*Session, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, &TransportError{Op: "open", Err: fmt.Errorf("%s at %d baud: %w", portName, baud, err)}
	}
	log.Info().Str("port", portName).Int("baud", baud).Msg("serial port open")

	return NewSession(ctx, port, opts)
}

// PortExists reports whether portName names an available serial port.
// Enumerated ports are checked first, then the filesystem, which covers
// symlinks and pseudo-terminals the enumerator does not list.
func PortExists(portName string) error {
	if ports, err := serial.GetPortsList(); err == nil {
		for _, p := range ports {
			if p == portName {
				return nil
			}
		}
	}
	if _, err := os.Stat(portName); err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPortNotFound, portName)
}
