package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"um7go/pkg/register"
)

// SPI opcode bytes preceding the register address on the wire.
const (
	spiOpRead  = 0x00
	spiOpWrite = 0x01
)

// SPIBus is a full-duplex transfer: tx is clocked out while the response is
// clocked in. Implementations wrap spidev or a USB-SPI adapter.
type SPIBus interface {
	Xfer(tx []byte) ([]byte, error)
	Close() error
}

// SPISession is the secondary transport: single-shot register access with no
// framing and no broadcast stream. The device answers a read in the bytes
// clocked out after the opcode and address.
type SPISession struct {
	mu  sync.Mutex
	bus SPIBus
	log zerolog.Logger
}

// SPIOption configures an SPISession.
type SPIOption func(*SPISession)

// WithSPILogger routes transfer diagnostics to l.
func WithSPILogger(l zerolog.Logger) SPIOption {
	return func(s *SPISession) {
		s.log = l
	}
}

// NewSPISession takes ownership of bus.
func NewSPISession(bus SPIBus, opts ...SPIOption) *SPISession {
	s := &SPISession{bus: bus, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read reads one register. The hidden flag has no SPI encoding and is
// ignored.
func (s *SPISession) Read(ctx context.Context, reg register.Register) (register.Value, error) {
	raw, err := s.xfer(ctx, spiOpRead, reg.Address, make([]byte, 4))
	if err != nil {
		return register.Value{}, err
	}
	return register.Value{Reg: reg, Raw: raw}, nil
}

// Write writes one register.
func (s *SPISession) Write(ctx context.Context, reg register.Register, payload []byte) error {
	switch len(payload) {
	case 2:
		payload = append([]byte{0, 0}, payload...)
	case 4:
	default:
		return fmt.Errorf("register write payload must be 2 or 4 bytes, got %d", len(payload))
	}
	_, err := s.xfer(ctx, spiOpWrite, reg.Address, payload)
	return err
}

// ReadConsecutive reads n registers starting at start in one transfer.
func (s *SPISession) ReadConsecutive(ctx context.Context, start uint8, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("register count must be positive, got %d", n)
	}
	return s.xfer(ctx, spiOpRead, start, make([]byte, 4*n))
}

func (s *SPISession) xfer(ctx context.Context, op byte, addr uint8, body []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := append([]byte{op, addr}, body...)
	resp, err := s.bus.Xfer(tx)
	if err != nil {
		return nil, fmt.Errorf("spi transfer for 0x%02x: %w", addr, err)
	}
	if len(resp) < len(tx) {
		return nil, fmt.Errorf("spi transfer for 0x%02x: short response (%d bytes)", addr, len(resp))
	}
	s.log.Trace().Uint8("addr", addr).Int("len", len(body)).Msg("spi transfer")
	return resp[2:], nil
}

// Close releases the bus.
func (s *SPISession) Close() error {
	return s.bus.Close()
}
