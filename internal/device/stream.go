package device

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"strokeplot/internal/toolpath"
)

// Sender performs one command handshake.
type Sender interface {
	Send(ctx context.Context, cmd toolpath.Command) ([]string, error)
}

// Feedback is called after each acknowledged command with the device's lines.
type Feedback func(index int, cmd toolpath.Command, lines []string)

// Stream sends cmds in order, one handshake each, and stops at the first
// failure. It returns how many commands the device acknowledged.
func Stream(ctx context.Context, s Sender, cmds []toolpath.Command, feedback Feedback) (int, error) {
	for i, cmd := range cmds {
		lines, err := s.Send(ctx, cmd)
		if err != nil {
			return i, fmt.Errorf("command %d of %d (%s): %w", i+1, len(cmds), cmd.Line(), err)
		}
		if feedback != nil {
			feedback(i, cmd, lines)
		}
		log.Trace().Int("index", i).Str("cmd", cmd.Line()).Msg("acknowledged")
	}
	log.Info().Int("commands", len(cmds)).Msg("job streamed")
	return len(cmds), nil
}
