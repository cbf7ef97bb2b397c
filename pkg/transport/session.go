// Package transport owns an open byte stream to one UM7 and layers the
// register transaction protocol and broadcast iteration on top of the
// framer. A session is exclusive: transactions and broadcast iteration
// serialize on the same mutex because they share the raw stream.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"um7go/pkg/protocol"
	"um7go/pkg/register"
)

var (
	// ErrTimeout reports that no matching response frame arrived within
	// the wait budget. The session stays usable; callers decide whether
	// to retry.
	ErrTimeout = errors.New("register transaction timed out")

	// ErrCommandFailed reports that the device set the command-failed bit
	// in its response.
	ErrCommandFailed = errors.New("register operation rejected by device")
)

// DefaultTimeout is the wait budget for one register transaction.
const DefaultTimeout = 500 * time.Millisecond

// Session drives one sensor over an exclusive byte stream. The port must
// have short-timeout read semantics (see pkg/serial); Close releases it.
type Session struct {
	mu        sync.Mutex // serializes transactions and broadcast iteration
	port      io.ReadWriteCloser
	framer    *protocol.Framer
	timeout   time.Duration
	log       zerolog.Logger
	closeOnce sync.Once
	closed    atomic.Bool
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout sets the register transaction wait budget.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger routes session diagnostics to l.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// NewSession takes ownership of port.
func NewSession(port io.ReadWriteCloser, opts ...Option) *Session {
	s := &Session{
		port:    port,
		timeout: DefaultTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.framer = protocol.NewFramer(port, protocol.WithFramerLogger(s.log))
	return s
}

// ReadRegister reads one register by wire address in the regular address
// space. Unknown addresses still work; the value then carries synthetic
// metadata with a plain integer interpretation.
func (s *Session) ReadRegister(ctx context.Context, addr uint8) (register.Value, error) {
	return s.Read(ctx, regFor(addr))
}

// Read reads the given register, honoring its hidden flag.
func (s *Session) Read(ctx context.Context, reg register.Register) (register.Value, error) {
	req := protocol.EncodeReadRequest(reg.Address, reg.Hidden)
	frame, err := s.transact(ctx, req, reg)
	if err != nil {
		return register.Value{}, err
	}
	return register.Value{Reg: reg, Raw: frame.Payload}, nil
}

// WriteRegister writes a raw 2 or 4-byte value to a register by wire
// address and waits for the device acknowledgement.
func (s *Session) WriteRegister(ctx context.Context, addr uint8, payload []byte) error {
	return s.Write(ctx, regFor(addr), payload)
}

// Write writes the given register, honoring its hidden flag.
func (s *Session) Write(ctx context.Context, reg register.Register, payload []byte) error {
	req, err := protocol.EncodeWriteRequest(reg.Address, payload, reg.Hidden)
	if err != nil {
		return err
	}
	_, err = s.transact(ctx, req, reg)
	return err
}

// transact runs one request/response exchange: send the request frame, then
// consume frames until one matches the register's address and hidden flag.
// Frames for other addresses are broadcast traffic and are discarded for the
// duration of the call. No retries happen here.
func (s *Session) transact(ctx context.Context, req []byte, reg register.Register) (protocol.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return protocol.Frame{}, protocol.ErrTransportClosed
	}

	if _, err := s.port.Write(req); err != nil {
		return protocol.Frame{}, fmt.Errorf("%w: %v", protocol.ErrTransportClosed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for {
		frame, err := s.framer.Next(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				s.log.Debug().Uint8("addr", reg.Address).Msg("register transaction timed out")
				return protocol.Frame{}, ErrTimeout
			}
			return protocol.Frame{}, err
		}
		if frame.Address != reg.Address || frame.Hidden != reg.Hidden {
			continue
		}
		if frame.CommandFailed {
			return protocol.Frame{}, fmt.Errorf("%w: %s", ErrCommandFailed, reg.Name)
		}
		return frame, nil
	}
}

// BroadcastOption configures one Broadcast call.
type BroadcastOption func(*broadcastConfig)

type broadcastConfig struct {
	addrs map[uint8]struct{}
	max   int
}

// WithAddresses restricts iteration to frames starting at the given
// broadcast addresses.
func WithAddresses(addrs ...uint8) BroadcastOption {
	return func(c *broadcastConfig) {
		if c.addrs == nil {
			c.addrs = make(map[uint8]struct{}, len(addrs))
		}
		for _, a := range addrs {
			c.addrs[a] = struct{}{}
		}
	}
}

// WithMaxPackets stops iteration after n decoded packets. n <= 0 means
// unbounded.
func WithMaxPackets(n int) BroadcastOption {
	return func(c *broadcastConfig) {
		c.max = n
	}
}

// Broadcast consumes pushed frames, decodes them and delivers them on out
// until the context ends, the stream closes, or the configured packet count
// is reached. It never writes to the port. Frames the decoder has no layout
// for, and frames that fail decoding, are skipped silently.
//
// Broadcast holds the session for its whole duration; register transactions
// block until it returns.
func (s *Session) Broadcast(ctx context.Context, out chan<- protocol.Broadcast, opts ...BroadcastOption) error {
	var cfg broadcastConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return protocol.ErrTransportClosed
	}

	delivered := 0
	for {
		frame, err := s.framer.Next(ctx)
		if err != nil {
			return err
		}
		if cfg.addrs != nil {
			if _, ok := cfg.addrs[frame.Address]; !ok {
				continue
			}
		}
		data, err := protocol.Decode(frame)
		if err != nil {
			if !errors.Is(err, protocol.ErrUnknownAddress) {
				s.log.Debug().Uint8("addr", frame.Address).Err(err).Msg("skipping undecodable broadcast")
			}
			continue
		}
		pkt := protocol.Broadcast{
			Address:   frame.Address,
			Kind:      protocol.Kind(data),
			Timestamp: time.Now(),
			Payload:   frame.Payload,
			Data:      data,
		}
		select {
		case out <- pkt:
		case <-ctx.Done():
			return ctx.Err()
		}
		delivered++
		if cfg.max > 0 && delivered >= cfg.max {
			return nil
		}
	}
}

// Close releases the underlying stream immediately; it does not wait for a
// running transaction or iteration, which observe the closure through their
// next read and terminate.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		err = s.port.Close()
	})
	return err
}

// regFor resolves wire-address metadata, synthesizing a plain 4-byte
// integer register when the address is not in the table.
func regFor(addr uint8) register.Register {
	if reg, ok := register.LookupByAddress(addr); ok {
		return reg
	}
	return register.Register{
		Address: addr,
		Name:    fmt.Sprintf("REG_0x%02X", addr),
		Width:   4,
		Access:  register.ReadWrite,
		Interp:  register.Uint32,
	}
}
