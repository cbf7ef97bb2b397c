package register

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Value is the payload of a single register read, paired with the register
// metadata needed to interpret it. It lives only for the duration of a call.
type Value struct {
	Reg Register
	Raw []byte
}

// Uint32 interprets the payload as an unsigned big-endian integer.
// Two-byte registers widen to 32 bits.
func (v Value) Uint32() uint32 {
	switch len(v.Raw) {
	case 2:
		return uint32(binary.BigEndian.Uint16(v.Raw))
	case 4:
		return binary.BigEndian.Uint32(v.Raw)
	default:
		return 0
	}
}

// Float32 re-packs a 4-byte payload as an IEEE-754 float.
func (v Value) Float32() float32 {
	if len(v.Raw) != 4 {
		return 0
	}
	return math.Float32frombits(binary.BigEndian.Uint32(v.Raw))
}

// Int16Pair splits a 4-byte payload into two signed big-endian halves.
func (v Value) Int16Pair() (int16, int16) {
	if len(v.Raw) != 4 {
		return 0, 0
	}
	return int16(binary.BigEndian.Uint16(v.Raw[0:2])), int16(binary.BigEndian.Uint16(v.Raw[2:4]))
}

// Bytes returns the raw payload.
func (v Value) Bytes() []byte {
	return v.Raw
}

// Interpret returns the payload as the Go value declared by the register's
// interpretation.
func (v Value) Interpret() any {
	switch v.Reg.Interp {
	case Float32:
		return v.Float32()
	case Int16Pair:
		a, b := v.Int16Pair()
		return [2]int16{a, b}
	case Bytes4:
		return append([]byte(nil), v.Raw...)
	default:
		return v.Uint32()
	}
}

// Field extracts the raw value of a named bit field.
func (v Value) Field(name string) (uint32, error) {
	f, ok := v.Reg.Field(name)
	if !ok {
		return 0, fmt.Errorf("register %s has no field %q", v.Reg.Name, name)
	}
	return (v.Uint32() >> uint32(f.Lo)) & f.Mask(), nil
}

// ScaledField extracts a bit field and applies its declared scale factor.
// Fields without a scale return the raw value as a float.
func (v Value) ScaledField(name string) (float64, error) {
	f, ok := v.Reg.Field(name)
	if !ok {
		return 0, fmt.Errorf("register %s has no field %q", v.Reg.Name, name)
	}
	raw := (v.Uint32() >> uint32(f.Lo)) & f.Mask()
	if f.Scale == 0 {
		return float64(raw), nil
	}
	return float64(raw) * f.Scale, nil
}

// EncodeUint32 packs an integer register value for a write request.
func EncodeUint32(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

// EncodeFloat32 packs a float register value for a write request.
func EncodeFloat32(v float32) []byte {
	return EncodeUint32(math.Float32bits(v))
}

// PackFields assembles a register word from named bit-field values. Fields
// not mentioned stay zero; the caller merges with a prior read when a
// read-modify-write is wanted.
func PackFields(r Register, fields map[string]uint32) ([]byte, error) {
	var word uint32
	for name, val := range fields {
		f, ok := r.Field(name)
		if !ok {
			return nil, fmt.Errorf("register %s has no field %q", r.Name, name)
		}
		if val > f.Mask() {
			return nil, fmt.Errorf("value %d does not fit field %s.%s (%d bits)", val, r.Name, name, f.Width())
		}
		word |= val << uint32(f.Lo)
	}
	return EncodeUint32(word), nil
}
