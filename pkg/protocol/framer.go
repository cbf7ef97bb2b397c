package protocol

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Framer converts an unbounded byte stream into a sequence of validated
// frames. It assumes the reader has short-timeout semantics: a serial port
// configured to return whatever is available within ~100 ms, or an in-memory
// stream. Zero-byte reads poll the context; a read error ends the stream.
//
// Checksum failures are expected line noise: the frame is dropped, the scan
// resumes one byte past the failed marker so overlapping markers inside the
// discarded span are still found, and nothing is surfaced to the caller.
type Framer struct {
	r        io.Reader
	buf      []byte
	chunk    []byte
	pollWait time.Duration
	log      zerolog.Logger
}

// FramerOption configures a Framer.
type FramerOption func(*Framer)

// WithFramerLogger routes checksum-failure diagnostics to l.
func WithFramerLogger(l zerolog.Logger) FramerOption {
	return func(f *Framer) {
		f.log = l
	}
}

// WithReadChunk sets the transport read size.
func WithReadChunk(n int) FramerOption {
	return func(f *Framer) {
		if n > 0 {
			f.chunk = make([]byte, n)
		}
	}
}

// NewFramer wraps r.
func NewFramer(r io.Reader, opts ...FramerOption) *Framer {
	f := &Framer{
		r:        r,
		chunk:    make([]byte, 512),
		pollWait: time.Millisecond,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Next blocks until a validated frame is available, the context ends, or the
// stream closes. Context expiry returns ctx.Err(); a closed stream returns
// an error matching ErrTransportClosed.
func (f *Framer) Next(ctx context.Context) (Frame, error) {
	for {
		frame, ok := f.extract()
		if ok {
			return frame, nil
		}
		if err := f.fill(ctx); err != nil {
			return Frame{}, err
		}
	}
}

// extract tries to pull one validated frame out of the pending buffer.
// It consumes noise bytes and failed candidates as a side effect.
func (f *Framer) extract() (Frame, bool) {
	for {
		start := bytes.Index(f.buf, Marker[:])
		if start < 0 {
			// Keep a possible marker prefix at the tail.
			if keep := len(f.buf); keep > len(Marker)-1 {
				f.buf = f.buf[keep-(len(Marker)-1):]
			}
			return Frame{}, false
		}
		f.buf = f.buf[start:]

		if len(f.buf) < headerLen {
			return Frame{}, false
		}
		frame := parsePacketType(f.buf[3])
		frame.Address = f.buf[4]
		total := headerLen + frame.payloadLen() + trailerLen
		if len(f.buf) < total {
			return Frame{}, false
		}

		want := binary.BigEndian.Uint16(f.buf[total-trailerLen : total])
		if got := Checksum(f.buf[:total-trailerLen]); got != want {
			f.log.Debug().
				Uint8("addr", frame.Address).
				Uint16("want", want).
				Uint16("got", got).
				Msg("dropping frame with bad checksum")
			// Resume one byte past the failed marker; the discarded span
			// may contain the true start of the next frame.
			f.buf = f.buf[1:]
			continue
		}

		frame.Payload = append([]byte(nil), f.buf[headerLen:total-trailerLen]...)
		frame.Checksum = want
		f.buf = f.buf[total:]
		return frame, true
	}
}

// fill reads more bytes from the transport.
func (f *Framer) fill(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := f.r.Read(f.chunk)
	if n > 0 {
		f.buf = append(f.buf, f.chunk[:n]...)
	}
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
			return ErrTransportClosed
		}
		return fmt.Errorf("%w: %v", ErrTransportClosed, err)
	}
	if n == 0 {
		// Short-timeout read with nothing available; wait briefly so an
		// eager reader does not spin.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.pollWait):
		}
	}
	return nil
}
