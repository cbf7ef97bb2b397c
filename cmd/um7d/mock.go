package main

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"sync"
	"time"

	"um7go/pkg/protocol"
)

// mockSensor simulates a UM7 behind an io.ReadWriteCloser: it answers
// register transactions and pushes Euler, quaternion and health broadcasts
// at a fixed rate. Reads have the same short-timeout semantics as a real
// serial port.
type mockSensor struct {
	mu      sync.Mutex
	pending bytes.Buffer // bytes queued for the host
	inbound []byte       // partial request bytes from the host
	regs    map[uint8][]byte
	hidden  map[uint8][]byte
	fail    map[uint8]bool
	closed  bool
	done    chan struct{}
}

const (
	mockRollAmplitudeDeg  = 35.0
	mockPitchAmplitudeDeg = 25.0
	mockYawAmplitudeDeg   = 40.0

	mockRollFreqHz  = 0.23
	mockPitchFreqHz = 0.31
	mockYawFreqHz   = 0.17
)

func newMockSensor(interval time.Duration) *mockSensor {
	m := &mockSensor{
		regs:   make(map[uint8][]byte),
		hidden: make(map[uint8][]byte),
		fail:   make(map[uint8]bool),
		done:   make(chan struct{}),
	}
	m.regs[0xAA] = []byte("U7.2") // GET_FW_REVISION
	if interval > 0 {
		go m.emit(interval)
	}
	return m
}

func (m *mockSensor) Read(b []byte) (int, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, io.EOF
	}
	if m.pending.Len() > 0 {
		n, _ := m.pending.Read(b)
		m.mu.Unlock()
		return n, nil
	}
	m.mu.Unlock()
	time.Sleep(2 * time.Millisecond)
	return 0, nil
}

// Write consumes request frames and queues the matching responses.
func (m *mockSensor) Write(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	m.inbound = append(m.inbound, b...)
	m.drainRequests()
	return len(b), nil
}

func (m *mockSensor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

// drainRequests parses complete request frames out of the inbound buffer.
// Requests are host-built, so malformed prefixes are just skipped.
func (m *mockSensor) drainRequests() {
	for {
		start := bytes.Index(m.inbound, protocol.Marker[:])
		if start < 0 {
			m.inbound = nil
			return
		}
		m.inbound = m.inbound[start:]
		if len(m.inbound) < 5 {
			return
		}
		pt, addr := m.inbound[3], m.inbound[4]
		hasData := pt>>7&1 == 1
		hidden := pt>>1&1 == 1
		payloadLen := 0
		if hasData {
			payloadLen = 4
		}
		total := 5 + payloadLen + 2
		if len(m.inbound) < total {
			return
		}
		req := m.inbound[:total]
		m.inbound = m.inbound[total:]
		if binary.BigEndian.Uint16(req[total-2:]) != protocol.Checksum(req[:total-2]) {
			continue
		}
		m.handleRequest(addr, hidden, hasData, req[5:5+payloadLen])
	}
}

func (m *mockSensor) handleRequest(addr uint8, hidden, isWrite bool, payload []byte) {
	bank := m.regs
	if hidden {
		bank = m.hidden
	}
	if isWrite {
		bank[addr] = append([]byte(nil), payload...)
	}
	value := bank[addr]
	if value == nil {
		value = make([]byte, 4)
	}
	resp := protocol.Frame{
		Address:       addr,
		HasData:       true,
		Hidden:        hidden,
		CommandFailed: m.fail[addr],
		Payload:       value,
	}
	if resp.CommandFailed {
		resp.HasData = false
		resp.Payload = nil
	}
	m.queueFrame(resp)
}

func (m *mockSensor) queueFrame(f protocol.Frame) {
	raw, err := f.Encode()
	if err != nil {
		return
	}
	m.pending.Write(raw)
}

// emit pushes broadcast frames until the sensor is closed.
func (m *mockSensor) emit(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	start := time.Now()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			t := time.Since(start).Seconds()
			roll, pitch, yaw := mockEulerAngles(t)
			m.mu.Lock()
			if m.closed {
				m.mu.Unlock()
				return
			}
			m.queueFrame(mockEulerFrame(roll, pitch, yaw, t))
			m.queueFrame(mockQuaternionFrame(roll, pitch, yaw, t))
			m.queueFrame(mockHealthFrame())
			m.mu.Unlock()
		}
	}
}

func mockEulerAngles(t float64) (roll, pitch, yaw float64) {
	roll = mockRollAmplitudeDeg * math.Sin(2.0*math.Pi*mockRollFreqHz*t)
	pitch = mockPitchAmplitudeDeg * math.Sin(2.0*math.Pi*mockPitchFreqHz*t+math.Pi/3.0)
	yaw = mockYawAmplitudeDeg * math.Sin(2.0*math.Pi*mockYawFreqHz*t+2.0*math.Pi/3.0)
	return
}

func putAngle(b []byte, deg float64) {
	binary.BigEndian.PutUint16(b, uint16(int16(math.Round(deg/protocol.EulerScale))))
}

func mockEulerFrame(roll, pitch, yaw, t float64) protocol.Frame {
	p := make([]byte, 20)
	putAngle(p[0:2], roll)
	putAngle(p[2:4], pitch)
	putAngle(p[4:6], yaw)
	binary.BigEndian.PutUint32(p[16:20], math.Float32bits(float32(t)))
	return protocol.Frame{
		Address:     protocol.AddrEuler,
		HasData:     true,
		IsBatch:     true,
		BatchLength: 5,
		Payload:     p,
	}
}

func mockQuaternionFrame(rollDeg, pitchDeg, yawDeg, t float64) protocol.Frame {
	roll := rollDeg * math.Pi / 180.0
	pitch := pitchDeg * math.Pi / 180.0
	yaw := yawDeg * math.Pi / 180.0
	cr, sr := math.Cos(roll*0.5), math.Sin(roll*0.5)
	cp, sp := math.Cos(pitch*0.5), math.Sin(pitch*0.5)
	cy, sy := math.Cos(yaw*0.5), math.Sin(yaw*0.5)

	// ZYX intrinsic rotation (yaw -> pitch -> roll).
	w := cr*cp*cy + sr*sp*sy
	x := sr*cp*cy - cr*sp*sy
	y := cr*sp*cy + sr*cp*sy
	z := cr*cp*sy - sr*sp*cy

	p := make([]byte, 12)
	for i, c := range []float64{w, x, y, z} {
		binary.BigEndian.PutUint16(p[2*i:], uint16(int16(math.Round(c/protocol.QuatScale))))
	}
	binary.BigEndian.PutUint32(p[8:12], math.Float32bits(float32(t)))
	return protocol.Frame{
		Address:     protocol.AddrQuat,
		HasData:     true,
		IsBatch:     true,
		BatchLength: 3,
		Payload:     p,
	}
}

func mockHealthFrame() protocol.Frame {
	p := make([]byte, 4)
	return protocol.Frame{
		Address: protocol.AddrHealth,
		HasData: true,
		Payload: p,
	}
}
