package register_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"um7go/pkg/register"
)

func mustLookup(t *testing.T, name string) register.Register {
	t.Helper()
	r, ok := register.LookupByName(name)
	require.True(t, ok)
	return r
}

func TestValueUint32(t *testing.T) {
	v := register.Value{Raw: []byte{0x12, 0x34, 0x56, 0x78}}
	require.Equal(t, uint32(0x12345678), v.Uint32())

	// Two-byte payloads widen into the low half.
	v = register.Value{Raw: []byte{0xAB, 0xCD}}
	require.Equal(t, uint32(0xABCD), v.Uint32())
}

func TestValueFloat32RoundTrip(t *testing.T) {
	raw := register.EncodeFloat32(-9.81)
	v := register.Value{Raw: raw}
	require.InDelta(t, -9.81, float64(v.Float32()), 1e-5)
}

func TestValueInt16Pair(t *testing.T) {
	v := register.Value{Raw: []byte{0xFF, 0x38, 0x00, 0x64}}
	a, b := v.Int16Pair()
	require.Equal(t, int16(-200), a)
	require.Equal(t, int16(100), b)
}

func TestValueInterpret(t *testing.T) {
	fw := mustLookup(t, "GET_FW_REVISION")
	v := register.Value{Reg: fw, Raw: []byte("U7.2")}
	require.Equal(t, []byte("U7.2"), v.Interpret())

	north := mustLookup(t, "CREG_HOME_NORTH")
	v = register.Value{Reg: north, Raw: register.EncodeFloat32(2.5)}
	require.Equal(t, float32(2.5), v.Interpret())
}

func TestValueField(t *testing.T) {
	rates := mustLookup(t, "CREG_COM_RATES5")
	v := register.Value{Reg: rates, Raw: register.EncodeUint32(0x64_28_00_00)}

	quat, err := v.Field("QUAT_RATE")
	require.NoError(t, err)
	require.Equal(t, uint32(0x64), quat)

	euler, err := v.Field("EULER_RATE")
	require.NoError(t, err)
	require.Equal(t, uint32(0x28), euler)

	_, err = v.Field("NOPE")
	require.Error(t, err)
}

func TestValueScaledField(t *testing.T) {
	health := mustLookup(t, "DREG_HEALTH")
	// HDOP raw 23 at bits 25..16, scale 0.1.
	v := register.Value{Reg: health, Raw: register.EncodeUint32(23 << 16)}

	hdop, err := v.ScaledField("HDOP")
	require.NoError(t, err)
	require.InDelta(t, 2.3, hdop, 1e-9)

	// Unscaled fields pass the raw value through.
	v = register.Value{Reg: health, Raw: register.EncodeUint32(5 << 26)}
	sats, err := v.ScaledField("SATS_USED")
	require.NoError(t, err)
	require.InDelta(t, 5.0, sats, 1e-9)
}

func TestPackFields(t *testing.T) {
	rates := mustLookup(t, "CREG_COM_RATES5")
	raw, err := register.PackFields(rates, map[string]uint32{
		"QUAT_RATE":  100,
		"EULER_RATE": 40,
	})
	require.NoError(t, err)
	require.Equal(t, []byte{100, 40, 0, 0}, raw)
}

func TestPackFieldsRejectsOverflow(t *testing.T) {
	rates := mustLookup(t, "CREG_COM_RATES5")
	_, err := register.PackFields(rates, map[string]uint32{"QUAT_RATE": 256})
	require.Error(t, err)

	_, err = register.PackFields(rates, map[string]uint32{"NOPE": 1})
	require.Error(t, err)
}
