package register_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"um7go/pkg/register"
)

func TestLookupByAddress(t *testing.T) {
	r, ok := register.LookupByAddress(0x00)
	require.True(t, ok)
	require.Equal(t, "CREG_COM_SETTINGS", r.Name)
	require.False(t, r.Hidden)

	_, ok = register.LookupByAddress(0x54)
	require.False(t, ok)
}

func TestLookupByNameCaseInsensitive(t *testing.T) {
	r, ok := register.LookupByName("creg_com_rates5")
	require.True(t, ok)
	require.Equal(t, uint8(0x05), r.Address)

	_, ok = register.LookupByName("CREG_NO_SUCH")
	require.False(t, ok)
}

func TestHiddenRegistersReachableByNameOnly(t *testing.T) {
	r, ok := register.LookupByName("HIDDEN_GYRO_VARIANCE")
	require.True(t, ok)
	require.True(t, r.Hidden)
	require.Equal(t, uint8(0x00), r.Address)

	// Address 0x00 in the regular space is CREG_COM_SETTINGS, never the
	// hidden register that shares the address.
	byAddr, ok := register.LookupByAddress(0x00)
	require.True(t, ok)
	require.False(t, byAddr.Hidden)
	require.Equal(t, "CREG_COM_SETTINGS", byAddr.Name)
}

func TestBitFieldGeometry(t *testing.T) {
	r, ok := register.LookupByName("CREG_COM_RATES5")
	require.True(t, ok)

	f, ok := r.Field("QUAT_RATE")
	require.True(t, ok)
	require.Equal(t, uint8(8), f.Width())
	require.Equal(t, uint32(0xFF), f.Mask())

	_, ok = r.Field("NOPE")
	require.False(t, ok)
}

func TestWritable(t *testing.T) {
	health, ok := register.LookupByName("DREG_HEALTH")
	require.True(t, ok)
	require.False(t, health.Writable())

	rates, ok := register.LookupByName("CREG_COM_RATES1")
	require.True(t, ok)
	require.True(t, rates.Writable())
}

func TestCommandRegistersPresent(t *testing.T) {
	for _, name := range []string{
		"GET_FW_REVISION", "FLASH_COMMIT", "RESET_TO_FACTORY",
		"ZERO_GYROS", "SET_HOME_POSITION", "SET_MAG_REFERENCE", "RESET_EKF",
	} {
		_, ok := register.LookupByName(name)
		require.True(t, ok, "missing command register %s", name)
	}
}

func TestAllCoversTable(t *testing.T) {
	all := register.All()
	require.NotEmpty(t, all)

	seen := make(map[string]bool, len(all))
	for _, r := range all {
		require.False(t, seen[r.Name], "duplicate register name %s", r.Name)
		seen[r.Name] = true
		require.Contains(t, []int{2, 4}, r.Width)
	}
}
