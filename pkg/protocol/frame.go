// Package protocol implements the UM7 `snp` wire protocol: frame encoding,
// the stream framer, and broadcast payload decoding.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Marker is the 3-byte start-of-frame sentinel.
var Marker = [3]byte{'s', 'n', 'p'}

const (
	// MaxBatchLength is the largest batch a packet-type byte can express.
	MaxBatchLength = 15

	headerLen  = 5 // marker + packet type + address
	trailerLen = 2 // checksum
)

var (
	// ErrTransportClosed reports that the underlying byte stream is gone.
	// Fatal for all subsequent operations on the session that owns it.
	ErrTransportClosed = errors.New("transport closed")

	// ErrUnknownAddress reports a broadcast frame with no known payload
	// layout. Iteration-level consumers skip these.
	ErrUnknownAddress = errors.New("no broadcast layout for address")

	errChecksum = errors.New("checksum mismatch")
)

// Frame is one validated unit of wire data.
type Frame struct {
	Address       uint8
	HasData       bool
	IsBatch       bool
	BatchLength   uint8
	Hidden        bool
	CommandFailed bool
	Payload       []byte
	Checksum      uint16
}

// packetType assembles the flags byte:
// bit7 has-data, bit6 is-batch, bits5..2 batch length, bit1 hidden, bit0 command-failed.
func (f Frame) packetType() byte {
	var pt byte
	if f.HasData {
		pt |= 1 << 7
	}
	if f.IsBatch {
		pt |= 1 << 6
	}
	pt |= (f.BatchLength & 0x0F) << 2
	if f.Hidden {
		pt |= 1 << 1
	}
	if f.CommandFailed {
		pt |= 1
	}
	return pt
}

func parsePacketType(pt byte) Frame {
	return Frame{
		HasData:       pt>>7&1 == 1,
		IsBatch:       pt>>6&1 == 1,
		BatchLength:   pt >> 2 & 0x0F,
		Hidden:        pt>>1&1 == 1,
		CommandFailed: pt&1 == 1,
	}
}

// payloadLen is the payload size the packet-type byte declares.
func (f Frame) payloadLen() int {
	switch {
	case !f.HasData:
		return 0
	case f.IsBatch:
		return 4 * int(f.BatchLength)
	default:
		return 4
	}
}

// Checksum is the 16-bit unsigned sum of every byte from the first marker
// byte through the last payload byte, mod 65536.
func Checksum(b []byte) uint16 {
	var sum uint16
	for _, c := range b {
		sum += uint16(c)
	}
	return sum
}

// Encode serializes the frame, computing the trailing checksum. The payload
// must match what the flags declare: empty without has-data, 4 bytes for a
// single-register frame, 4*batch-length for a batch.
func (f Frame) Encode() ([]byte, error) {
	if f.BatchLength > MaxBatchLength {
		return nil, fmt.Errorf("batch length %d exceeds %d", f.BatchLength, MaxBatchLength)
	}
	if len(f.Payload) != f.payloadLen() {
		return nil, fmt.Errorf("payload length %d does not match declared %d", len(f.Payload), f.payloadLen())
	}
	buf := make([]byte, 0, headerLen+len(f.Payload)+trailerLen)
	buf = append(buf, Marker[:]...)
	buf = append(buf, f.packetType(), f.Address)
	buf = append(buf, f.Payload...)
	sum := Checksum(buf)
	buf = binary.BigEndian.AppendUint16(buf, sum)
	return buf, nil
}

// EncodeReadRequest builds a register read request frame.
func EncodeReadRequest(addr uint8, hidden bool) []byte {
	b, _ := Frame{Address: addr, Hidden: hidden}.Encode()
	return b
}

// EncodeWriteRequest builds a register write request frame. The payload is
// the new register contents; 2-byte values are widened into the low half of
// the 4-byte wire word.
func EncodeWriteRequest(addr uint8, payload []byte, hidden bool) ([]byte, error) {
	switch len(payload) {
	case 2:
		payload = append([]byte{0, 0}, payload...)
	case 4:
	default:
		return nil, fmt.Errorf("register write payload must be 2 or 4 bytes, got %d", len(payload))
	}
	return Frame{Address: addr, HasData: true, Hidden: hidden, Payload: payload}.Encode()
}
