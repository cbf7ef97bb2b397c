package protocol_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"um7go/pkg/protocol"
)

func mustEncode(t *testing.T, f protocol.Frame) []byte {
	t.Helper()
	raw, err := f.Encode()
	require.NoError(t, err)
	return raw
}

func TestChecksum(t *testing.T) {
	// 's' + 'n' + 'p' = 115 + 110 + 112.
	require.Equal(t, uint16(337), protocol.Checksum([]byte("snp")))
	require.Equal(t, uint16(0), protocol.Checksum(nil))
}

func TestEncodeReadRequest(t *testing.T) {
	raw := protocol.EncodeReadRequest(0x5A, false)
	require.Len(t, raw, 7)
	require.Equal(t, []byte("snp"), raw[:3])
	require.Equal(t, byte(0x00), raw[3])
	require.Equal(t, byte(0x5A), raw[4])
	require.Equal(t, protocol.Checksum(raw[:5]), binary.BigEndian.Uint16(raw[5:]))
}

func TestEncodeReadRequestHidden(t *testing.T) {
	raw := protocol.EncodeReadRequest(0x00, true)
	require.Equal(t, byte(0x02), raw[3], "hidden flag is bit 1 of the packet type")
}

func TestEncodeWriteRequestWidensShortPayload(t *testing.T) {
	raw, err := protocol.EncodeWriteRequest(0x01, []byte{0xAB, 0xCD}, false)
	require.NoError(t, err)
	require.Len(t, raw, 11)
	require.Equal(t, byte(0x80), raw[3])
	require.Equal(t, []byte{0x00, 0x00, 0xAB, 0xCD}, raw[5:9])
}

func TestEncodeWriteRequestRejectsOddPayload(t *testing.T) {
	_, err := protocol.EncodeWriteRequest(0x01, []byte{1, 2, 3}, false)
	require.Error(t, err)
}

func TestEncodePacketTypeBits(t *testing.T) {
	raw := mustEncode(t, protocol.Frame{
		Address:     0x70,
		HasData:     true,
		IsBatch:     true,
		BatchLength: 3,
		Payload:     make([]byte, 12),
	})
	// has-data | is-batch | batch length 3 in bits 5..2.
	require.Equal(t, byte(0x80|0x40|0x0C), raw[3])
}

func TestEncodeRejectsPayloadMismatch(t *testing.T) {
	_, err := protocol.Frame{Address: 0x70, HasData: true, Payload: make([]byte, 8)}.Encode()
	require.Error(t, err)

	_, err = protocol.Frame{Address: 0x70, Payload: []byte{1}}.Encode()
	require.Error(t, err)
}

func TestEncodeRejectsOversizedBatch(t *testing.T) {
	_, err := protocol.Frame{
		Address:     0x56,
		HasData:     true,
		IsBatch:     true,
		BatchLength: protocol.MaxBatchLength + 1,
		Payload:     make([]byte, 4*(protocol.MaxBatchLength+1)),
	}.Encode()
	require.Error(t, err)
}

func TestFrameRoundTrip(t *testing.T) {
	payload := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}
	want := protocol.Frame{
		Address:     0x61,
		HasData:     true,
		IsBatch:     true,
		BatchLength: 2,
		Payload:     payload,
	}
	raw := mustEncode(t, want)

	framer := protocol.NewFramer(bytes.NewReader(raw))
	got, err := framer.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.Address, got.Address)
	require.True(t, got.HasData)
	require.True(t, got.IsBatch)
	require.Equal(t, uint8(2), got.BatchLength)
	require.False(t, got.Hidden)
	require.False(t, got.CommandFailed)
	require.Equal(t, payload, got.Payload)
}

func TestFrameRoundTripFlags(t *testing.T) {
	raw := mustEncode(t, protocol.Frame{Address: 0xAD, CommandFailed: true})
	framer := protocol.NewFramer(bytes.NewReader(raw))
	got, err := framer.Next(context.Background())
	require.NoError(t, err)
	require.True(t, got.CommandFailed)
	require.Empty(t, got.Payload)
}
