package transport_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"um7go/pkg/protocol"
	"um7go/pkg/register"
	"um7go/pkg/transport"
)

// scriptPort is an in-memory sensor double. Writes hand the request to a
// handler which returns the bytes the device sends back; reads drain the
// pending buffer with short-timeout semantics like a real port.
type scriptPort struct {
	mu      sync.Mutex
	pending bytes.Buffer
	onWrite func(req []byte) []byte
	closed  bool
}

func (p *scriptPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0, io.EOF
	}
	if p.pending.Len() > 0 {
		n, _ := p.pending.Read(b)
		p.mu.Unlock()
		return n, nil
	}
	p.mu.Unlock()
	time.Sleep(time.Millisecond)
	return 0, nil
}

func (p *scriptPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	if p.onWrite != nil {
		p.pending.Write(p.onWrite(b))
	}
	return len(b), nil
}

func (p *scriptPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *scriptPort) push(t *testing.T, f protocol.Frame) {
	t.Helper()
	raw, err := f.Encode()
	require.NoError(t, err)
	p.mu.Lock()
	p.pending.Write(raw)
	p.mu.Unlock()
}

func encodeFrames(t *testing.T, frames ...protocol.Frame) []byte {
	t.Helper()
	var out []byte
	for _, f := range frames {
		raw, err := f.Encode()
		require.NoError(t, err)
		out = append(out, raw...)
	}
	return out
}

func TestSessionReadRegister(t *testing.T) {
	port := &scriptPort{}
	port.onWrite = func(req []byte) []byte {
		require.Equal(t, protocol.EncodeReadRequest(0x00, false), req)
		return encodeFrames(t, protocol.Frame{
			Address: 0x00,
			HasData: true,
			Payload: []byte{0x00, 0x00, 0x01, 0x05},
		})
	}
	sess := transport.NewSession(port)
	defer sess.Close()

	v, err := sess.ReadRegister(context.Background(), 0x00)
	require.NoError(t, err)
	require.Equal(t, "CREG_COM_SETTINGS", v.Reg.Name)
	require.Equal(t, uint32(0x105), v.Uint32())
}

func TestSessionReadSkipsBroadcastTraffic(t *testing.T) {
	euler := protocol.Frame{
		Address:     protocol.AddrEuler,
		HasData:     true,
		IsBatch:     true,
		BatchLength: 5,
		Payload:     make([]byte, 20),
	}
	port := &scriptPort{}
	port.onWrite = func([]byte) []byte {
		return encodeFrames(t, euler, euler, protocol.Frame{
			Address: 0x05,
			HasData: true,
			Payload: []byte{0, 0, 0, 40},
		})
	}
	sess := transport.NewSession(port)
	defer sess.Close()

	v, err := sess.ReadRegister(context.Background(), 0x05)
	require.NoError(t, err)
	require.Equal(t, uint32(40), v.Uint32())
}

func TestSessionReadIgnoresHiddenMismatch(t *testing.T) {
	port := &scriptPort{}
	port.onWrite = func([]byte) []byte {
		return encodeFrames(t,
			protocol.Frame{Address: 0x00, HasData: true, Hidden: true, Payload: []byte{9, 9, 9, 9}},
			protocol.Frame{Address: 0x00, HasData: true, Payload: []byte{0, 0, 0, 1}},
		)
	}
	sess := transport.NewSession(port)
	defer sess.Close()

	v, err := sess.ReadRegister(context.Background(), 0x00)
	require.NoError(t, err)
	require.Equal(t, uint32(1), v.Uint32())
}

func TestSessionTimeoutLeavesSessionUsable(t *testing.T) {
	port := &scriptPort{}
	answer := false
	port.onWrite = func([]byte) []byte {
		if !answer {
			return nil
		}
		return encodeFrames(t, protocol.Frame{
			Address: 0x01,
			HasData: true,
			Payload: []byte{0, 0, 0, 7},
		})
	}
	sess := transport.NewSession(port, transport.WithTimeout(30*time.Millisecond))
	defer sess.Close()

	_, err := sess.ReadRegister(context.Background(), 0x01)
	require.ErrorIs(t, err, transport.ErrTimeout)

	answer = true
	v, err := sess.ReadRegister(context.Background(), 0x01)
	require.NoError(t, err)
	require.Equal(t, uint32(7), v.Uint32())
}

func TestSessionCommandFailed(t *testing.T) {
	port := &scriptPort{}
	port.onWrite = func([]byte) []byte {
		return encodeFrames(t, protocol.Frame{Address: 0xAC, CommandFailed: true})
	}
	sess := transport.NewSession(port)
	defer sess.Close()

	reg, ok := register.LookupByName("RESET_TO_FACTORY")
	require.True(t, ok)
	_, err := sess.Read(context.Background(), reg)
	require.ErrorIs(t, err, transport.ErrCommandFailed)
}

func TestSessionWriteReadBack(t *testing.T) {
	// A stateful device double: writes stick, reads return the stored word.
	store := make(map[uint8][]byte)
	port := &scriptPort{}
	port.onWrite = func(req []byte) []byte {
		addr := req[4]
		if req[3]>>7&1 == 1 {
			store[addr] = append([]byte(nil), req[5:9]...)
		}
		value := store[addr]
		if value == nil {
			value = make([]byte, 4)
		}
		return encodeFrames(t, protocol.Frame{Address: addr, HasData: true, Payload: value})
	}
	sess := transport.NewSession(port)
	defer sess.Close()

	ctx := context.Background()
	require.NoError(t, sess.WriteRegister(ctx, 0x05, register.EncodeUint32(40<<24)))

	v, err := sess.ReadRegister(ctx, 0x05)
	require.NoError(t, err)
	rate, err := v.Field("QUAT_RATE")
	require.NoError(t, err)
	require.Equal(t, uint32(40), rate)
}

func TestSessionWriteHonorsHiddenFlag(t *testing.T) {
	var gotHidden bool
	port := &scriptPort{}
	port.onWrite = func(req []byte) []byte {
		gotHidden = req[3]>>1&1 == 1
		return encodeFrames(t, protocol.Frame{
			Address: 0x00,
			HasData: true,
			Hidden:  true,
			Payload: make([]byte, 4),
		})
	}
	sess := transport.NewSession(port)
	defer sess.Close()

	reg, ok := register.LookupByName("HIDDEN_GYRO_VARIANCE")
	require.True(t, ok)
	require.NoError(t, sess.Write(context.Background(), reg, register.EncodeFloat32(0.5)))
	require.True(t, gotHidden)
}

func TestSessionBroadcastFilterAndMax(t *testing.T) {
	health := protocol.Frame{Address: protocol.AddrHealth, HasData: true, Payload: []byte{0, 0, 0, 0}}
	euler := protocol.Frame{
		Address:     protocol.AddrEuler,
		HasData:     true,
		IsBatch:     true,
		BatchLength: 5,
		Payload:     make([]byte, 20),
	}

	port := &scriptPort{}
	for i := 0; i < 3; i++ {
		port.push(t, euler)
		port.push(t, health)
	}
	sess := transport.NewSession(port)
	defer sess.Close()

	out := make(chan protocol.Broadcast, 8)
	err := sess.Broadcast(context.Background(), out,
		transport.WithAddresses(protocol.AddrHealth),
		transport.WithMaxPackets(2),
	)
	require.NoError(t, err)

	close(out)
	var got []protocol.Broadcast
	for pkt := range out {
		got = append(got, pkt)
	}
	require.Len(t, got, 2)
	for _, pkt := range got {
		require.Equal(t, "health", pkt.Kind)
		require.Equal(t, uint8(protocol.AddrHealth), pkt.Address)
	}
}

func TestSessionBroadcastContextCancel(t *testing.T) {
	port := &scriptPort{}
	sess := transport.NewSession(port)
	defer sess.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	out := make(chan protocol.Broadcast, 1)
	err := sess.Broadcast(ctx, out)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSessionCloseUnblocksBroadcast(t *testing.T) {
	port := &scriptPort{}
	sess := transport.NewSession(port)

	out := make(chan protocol.Broadcast, 1)
	done := make(chan error, 1)
	go func() {
		done <- sess.Broadcast(context.Background(), out)
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, sess.Close())

	select {
	case err := <-done:
		require.ErrorIs(t, err, protocol.ErrTransportClosed)
	case <-time.After(time.Second):
		t.Fatal("broadcast did not observe the closed transport")
	}
}

func TestSessionClosedRejectsTransactions(t *testing.T) {
	port := &scriptPort{}
	sess := transport.NewSession(port)
	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close(), "close is idempotent")

	_, err := sess.ReadRegister(context.Background(), 0x00)
	require.ErrorIs(t, err, protocol.ErrTransportClosed)
}

func TestSessionUnknownAddressSynthesizesMetadata(t *testing.T) {
	port := &scriptPort{}
	port.onWrite = func(req []byte) []byte {
		return encodeFrames(t, protocol.Frame{
			Address: req[4],
			HasData: true,
			Payload: binary.BigEndian.AppendUint32(nil, 1234),
		})
	}
	sess := transport.NewSession(port)
	defer sess.Close()

	v, err := sess.ReadRegister(context.Background(), 0x54)
	require.NoError(t, err)
	require.Equal(t, "REG_0x54", v.Reg.Name)
	require.Equal(t, uint32(1234), v.Uint32())
}
