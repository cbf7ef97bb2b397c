package transport_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"um7go/pkg/register"
	"um7go/pkg/transport"
)

// fakeBus records transfers and answers from a script.
type fakeBus struct {
	txs    [][]byte
	next   []byte
	err    error
	closed bool
}

func (b *fakeBus) Xfer(tx []byte) ([]byte, error) {
	b.txs = append(b.txs, append([]byte(nil), tx...))
	if b.err != nil {
		return nil, b.err
	}
	if b.next != nil {
		return b.next, nil
	}
	return make([]byte, len(tx)), nil
}

func (b *fakeBus) Close() error {
	b.closed = true
	return nil
}

func TestSPIRead(t *testing.T) {
	bus := &fakeBus{next: []byte{0, 0, 0x11, 0x22, 0x33, 0x44}}
	sess := transport.NewSPISession(bus)

	reg, ok := register.LookupByName("CREG_COM_SETTINGS")
	require.True(t, ok)
	v, err := sess.Read(context.Background(), reg)
	require.NoError(t, err)
	require.Equal(t, uint32(0x11223344), v.Uint32())

	require.Len(t, bus.txs, 1)
	require.Equal(t, []byte{0x00, 0x00, 0, 0, 0, 0}, bus.txs[0])
}

func TestSPIWrite(t *testing.T) {
	bus := &fakeBus{}
	sess := transport.NewSPISession(bus)

	reg, ok := register.LookupByName("CREG_COM_RATES5")
	require.True(t, ok)
	require.NoError(t, sess.Write(context.Background(), reg, register.EncodeUint32(0x64280000)))

	require.Len(t, bus.txs, 1)
	require.Equal(t, []byte{0x01, 0x05, 0x64, 0x28, 0x00, 0x00}, bus.txs[0])
}

func TestSPIWriteWidensShortPayload(t *testing.T) {
	bus := &fakeBus{}
	sess := transport.NewSPISession(bus)

	reg, _ := register.LookupByName("CREG_COM_RATES5")
	require.NoError(t, sess.Write(context.Background(), reg, []byte{0xAB, 0xCD}))
	require.Equal(t, []byte{0x01, 0x05, 0x00, 0x00, 0xAB, 0xCD}, bus.txs[0])

	require.Error(t, sess.Write(context.Background(), reg, []byte{1, 2, 3}))
}

func TestSPIReadConsecutive(t *testing.T) {
	bus := &fakeBus{next: make([]byte, 10)}
	sess := transport.NewSPISession(bus)

	raw, err := sess.ReadConsecutive(context.Background(), 0x61, 2)
	require.NoError(t, err)
	require.Len(t, raw, 8)
	require.Equal(t, []byte{0x00, 0x61, 0, 0, 0, 0, 0, 0, 0, 0}, bus.txs[0])

	_, err = sess.ReadConsecutive(context.Background(), 0x61, 0)
	require.Error(t, err)
}

func TestSPIShortResponse(t *testing.T) {
	bus := &fakeBus{next: []byte{0, 0, 1}}
	sess := transport.NewSPISession(bus)

	reg, _ := register.LookupByName("CREG_COM_SETTINGS")
	_, err := sess.Read(context.Background(), reg)
	require.Error(t, err)
}

func TestSPIBusError(t *testing.T) {
	busErr := errors.New("bus gone")
	bus := &fakeBus{err: busErr}
	sess := transport.NewSPISession(bus)

	reg, _ := register.LookupByName("CREG_COM_SETTINGS")
	_, err := sess.Read(context.Background(), reg)
	require.ErrorIs(t, err, busErr)
}

func TestSPICancelledContext(t *testing.T) {
	bus := &fakeBus{}
	sess := transport.NewSPISession(bus)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reg, _ := register.LookupByName("CREG_COM_SETTINGS")
	_, err := sess.Read(ctx, reg)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, bus.txs, "no transfer after cancellation")
}

func TestSPIClose(t *testing.T) {
	bus := &fakeBus{}
	sess := transport.NewSPISession(bus)
	require.NoError(t, sess.Close())
	require.True(t, bus.closed)
}
