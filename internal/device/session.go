// Package device drives the plotter over a serial line, one command at a time.
package device

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"strokeplot/internal/toolpath"
)

// Options configures a Session.
type Options struct {
	Settle      time.Duration // Wait after opening, while the controller resets
	Timeout     time.Duration // Upper bound on one handshake
	Terminator  string        // Token that ends every response
	MaxResponse int           // Bytes accepted before the terminator
}

// DefaultOptions returns a 2s settle delay, a 10s handshake bound and the "DONE" terminator.
func DefaultOptions() Options {
	return Options{
		Settle:      2 * time.Second,
		Timeout:     10 * time.Second,
		Terminator:  "DONE",
		MaxResponse: 64 * 1024,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}
	if o.Terminator == "" {
		o.Terminator = def.Terminator
	}
	if o.MaxResponse <= 0 {
		o.MaxResponse = def.MaxResponse
	}
	if o.Settle < 0 {
		o.Settle = 0
	}
	return o
}

type chunk struct {
	data []byte
	err  error
}

// Session owns the channel to the plotter. Send is a strict handshake: the
// command line is written, then Send blocks until the terminator arrives, the
// timeout expires or ctx is done. Only one command is ever in flight.
type Session struct {
	mu      sync.Mutex
	port    io.ReadWriteCloser
	opts    Options
	term    []byte
	chunks  chan chunk
	done    chan struct{}
	pending []byte
	broken  error
	closed  atomic.Bool

	closeOnce sync.Once
	closeErr  error
}

// NewSession takes ownership of port, starts reading from it and waits for the
// settle delay. If ctx ends during the delay the port is closed.
func NewSession(ctx context.Context, port io.ReadWriteCloser, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	s := &Session{
		port:   port,
		opts:   opts,
		term:   []byte(opts.Terminator),
		chunks: make(chan chunk, 16),
		done:   make(chan struct{}),
	}
	go s.readLoop()

	if opts.Settle > 0 {
		log.Debug().Dur("settle", opts.Settle).Msg("waiting for device to settle")
		timer := time.NewTimer(opts.Settle)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			_ = s.Close()
			return nil, ctx.Err()
		}
	}
	return s, nil
}

// readLoop pumps bytes from the port until it fails or the session closes.
func (s *Session) readLoop() {
	buf := make([]byte, 256)
	for {
		n, err := s.port.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			select {
			case s.chunks <- chunk{data: data}:
			case <-s.done:
				return
			}
		}
		if err != nil {
			select {
			case s.chunks <- chunk{err: err}:
			case <-s.done:
			}
			return
		}
	}
}

// Send writes one command and returns the device's feedback lines, without
// the terminator. After a timeout or transport failure the session is broken
// and every later Send fails with ErrSessionBroken; nothing is retried.
func (s *Session) Send(ctx context.Context, cmd toolpath.Command) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if s.broken != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionBroken, s.broken)
	}

	line := cmd.Line()
	if err := s.write(line); err != nil {
		return nil, s.fail(err)
	}

	lines, err := s.awaitTerminator(ctx, line)
	if err != nil {
		return nil, s.fail(err)
	}

	for _, l := range lines {
		log.Debug().Str("cmd", line).Str("device", l).Msg("feedback")
	}
	return lines, nil
}

func (s *Session) write(line string) error {
	if wd, ok := s.port.(interface{ SetWriteDeadline(time.Time) error }); ok {
		_ = wd.SetWriteDeadline(time.Now().Add(s.opts.Timeout))
	}
	if _, err := io.WriteString(s.port, line+"\n"); err != nil {
		return &TransportError{Op: "write", Line: line, Err: err}
	}
	return nil
}

// awaitTerminator accumulates bytes until the first occurrence of the
// terminator. Text after the terminator's line is kept for the next response.
func (s *Session) awaitTerminator(ctx context.Context, line string) ([]string, error) {
	acc := s.pending
	s.pending = nil

	timer := time.NewTimer(s.opts.Timeout)
	defer timer.Stop()

	for {
		if idx := bytes.Index(acc, s.term); idx >= 0 {
			body := acc[:idx]
			rest := acc[idx+len(s.term):]
			if nl := bytes.IndexByte(rest, '\n'); nl >= 0 {
				rest = rest[nl+1:]
			}
			if len(rest) > 0 {
				s.pending = append([]byte(nil), rest...)
			}
			return splitLines(body), nil
		}
		if len(acc) > s.opts.MaxResponse {
			return nil, &TransportError{Op: "read", Line: line, Err: ErrResponseTooLarge}
		}

		select {
		case c := <-s.chunks:
			if c.err != nil {
				return nil, &TransportError{Op: "read", Line: line, Err: c.err}
			}
			acc = append(acc, c.data...)
		case <-timer.C:
			return nil, fmt.Errorf("%w: no %q within %s after %q", ErrDeviceTimeout, s.opts.Terminator, s.opts.Timeout, line)
		case <-ctx.Done():
			return nil, fmt.Errorf("device: waiting for %q: %w", line, ctx.Err())
		case <-s.done:
			return nil, ErrSessionClosed
		}
	}
}

func (s *Session) fail(err error) error {
	s.broken = err
	log.Error().Err(err).Msg("device handshake failed")
	return err
}

// Close tears down the channel, releasing a Send blocked on the device.
// It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.closeErr = s.port.Close()
	})
	return s.closeErr
}

func splitLines(body []byte) []string {
	var lines []string
	for _, l := range strings.Split(string(body), "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
