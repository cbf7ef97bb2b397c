package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Fixed-point scale factors from the UM7 datasheet.
const (
	EulerScale = 1.0 / 91.02222
	QuatScale  = 1.0 / 29789.09091
)

// Broadcast-capable start addresses. Batches that span several data
// registers are keyed by their first register.
const (
	AddrHealth   = 0x55
	AddrGyroRaw  = 0x56
	AddrAccelRaw = 0x59
	AddrMagRaw   = 0x5C
	AddrGyroProc = 0x61
	AddrAccelPrc = 0x65
	AddrMagProc  = 0x69
	AddrQuat     = 0x6D
	AddrEuler    = 0x70
	AddrPose     = 0x75
	AddrVelocity = 0x79
	AddrGyroBias = 0x89
)

// Decode selects the payload layout for a validated frame's address and
// returns the typed packet. Addresses without a layout (command registers,
// plain register responses) return ErrUnknownAddress; iterating consumers
// skip those rather than fail.
func Decode(f Frame) (any, error) {
	p := f.Payload
	switch f.Address {
	case AddrHealth:
		if err := wantLen(f, 4); err != nil {
			return nil, err
		}
		return Health{Raw: binary.BigEndian.Uint32(p)}, nil
	case AddrGyroRaw:
		switch len(p) {
		case 44:
			return decodeAllRaw(p), nil
		case 12:
			return RawGyro(decodeRawVector(p)), nil
		}
		return nil, badLen(f)
	case AddrAccelRaw:
		if err := wantLen(f, 12); err != nil {
			return nil, err
		}
		return RawAccel(decodeRawVector(p)), nil
	case AddrMagRaw:
		if err := wantLen(f, 12); err != nil {
			return nil, err
		}
		return RawMag(decodeRawVector(p)), nil
	case AddrGyroProc:
		switch len(p) {
		case 48:
			return decodeAllProc(p), nil
		case 16:
			return ProcGyro(decodeProcVector(p)), nil
		}
		return nil, badLen(f)
	case AddrAccelPrc:
		if err := wantLen(f, 16); err != nil {
			return nil, err
		}
		return ProcAccel(decodeProcVector(p)), nil
	case AddrMagProc:
		if err := wantLen(f, 16); err != nil {
			return nil, err
		}
		return ProcMag(decodeProcVector(p)), nil
	case AddrQuat:
		if err := wantLen(f, 12); err != nil {
			return nil, err
		}
		return decodeQuaternion(p), nil
	case AddrEuler:
		switch len(p) {
		case 20:
			return decodeEuler(p), nil
		case 36:
			return EulerPose{
				Euler:        decodeEuler(p[0:20]),
				North:        f32(p[20:24]),
				East:         f32(p[24:28]),
				Up:           f32(p[28:32]),
				PositionTime: f32(p[32:36]),
			}, nil
		}
		return nil, badLen(f)
	case AddrPose:
		if err := wantLen(f, 16); err != nil {
			return nil, err
		}
		return Pose{North: f32(p[0:4]), East: f32(p[4:8]), Up: f32(p[8:12]), Time: f32(p[12:16])}, nil
	case AddrVelocity:
		if err := wantLen(f, 16); err != nil {
			return nil, err
		}
		return Velocity{North: f32(p[0:4]), East: f32(p[4:8]), Up: f32(p[8:12]), Time: f32(p[12:16])}, nil
	case AddrGyroBias:
		if err := wantLen(f, 12); err != nil {
			return nil, err
		}
		return GyroBias{X: f32(p[0:4]), Y: f32(p[4:8]), Z: f32(p[8:12])}, nil
	}
	return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownAddress, f.Address)
}

func wantLen(f Frame, n int) error {
	if len(f.Payload) != n {
		return badLen(f)
	}
	return nil
}

func badLen(f Frame) error {
	return fmt.Errorf("invalid payload length %d for address 0x%02x", len(f.Payload), f.Address)
}

func f32(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

func i16(b []byte) int16 {
	return int16(binary.BigEndian.Uint16(b))
}

// decodeRawVector reads 3 x int16, 2 padding bytes and a float32 sample time.
func decodeRawVector(p []byte) RawVector {
	return RawVector{
		X:    i16(p[0:2]),
		Y:    i16(p[2:4]),
		Z:    i16(p[4:6]),
		Time: f32(p[8:12]),
	}
}

func decodeProcVector(p []byte) ProcVector {
	return ProcVector{
		X:    f32(p[0:4]),
		Y:    f32(p[4:8]),
		Z:    f32(p[8:12]),
		Time: f32(p[12:16]),
	}
}

func decodeAllRaw(p []byte) AllRaw {
	g := decodeRawVector(p[0:12])
	a := decodeRawVector(p[12:24])
	m := decodeRawVector(p[24:36])
	return AllRaw{
		GyroX: g.X, GyroY: g.Y, GyroZ: g.Z, GyroTime: g.Time,
		AccelX: a.X, AccelY: a.Y, AccelZ: a.Z, AccelTime: a.Time,
		MagX: m.X, MagY: m.Y, MagZ: m.Z, MagTime: m.Time,
		Temperature:     f32(p[36:40]),
		TemperatureTime: f32(p[40:44]),
	}
}

func decodeAllProc(p []byte) AllProc {
	g := decodeProcVector(p[0:16])
	a := decodeProcVector(p[16:32])
	m := decodeProcVector(p[32:48])
	return AllProc{
		GyroX: g.X, GyroY: g.Y, GyroZ: g.Z, GyroTime: g.Time,
		AccelX: a.X, AccelY: a.Y, AccelZ: a.Z, AccelTime: a.Time,
		MagX: m.X, MagY: m.Y, MagZ: m.Z, MagTime: m.Time,
	}
}

func decodeEuler(p []byte) Euler {
	return Euler{
		Roll:      float64(i16(p[0:2])) * EulerScale,
		Pitch:     float64(i16(p[2:4])) * EulerScale,
		Yaw:       float64(i16(p[4:6])) * EulerScale,
		RollRate:  float64(i16(p[8:10])) * EulerScale,
		PitchRate: float64(i16(p[10:12])) * EulerScale,
		YawRate:   float64(i16(p[12:14])) * EulerScale,
		Time:      f32(p[16:20]),
	}
}

func decodeQuaternion(p []byte) Quaternion {
	return Quaternion{
		W:    float64(i16(p[0:2])) * QuatScale,
		X:    float64(i16(p[2:4])) * QuatScale,
		Y:    float64(i16(p[4:6])) * QuatScale,
		Z:    float64(i16(p[6:8])) * QuatScale,
		Time: f32(p[8:12]),
	}
}
