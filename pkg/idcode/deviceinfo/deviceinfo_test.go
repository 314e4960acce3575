package deviceinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupKnownDebugPort(t *testing.T) {
	info := Lookup(0x3ba00477)
	require.True(t, info.Known)
	require.Equal(t, "JTAG-DP", info.Name)
	require.Equal(t, TransportARMDP, info.Transport)
	require.Equal(t, "arm-jtag-dp", info.Catalog)
	require.Equal(t, "ARM", info.Manufacturer.Abbreviation)
	require.Equal(t, uint8(3), info.IDCode.Version)
}

func TestLookupRISCVDTM(t *testing.T) {
	info := Lookup(0x20000913)
	require.True(t, info.Known)
	require.Equal(t, TransportRISCVDTM, info.Transport)
	require.Equal(t, 5, info.IRLength)
}

func TestLookupUnknownDevice(t *testing.T) {
	info := Lookup(0x12345001)
	require.False(t, info.Known)
	require.Equal(t, "Unknown device", info.Name)
	require.Equal(t, TransportUnknown, info.Transport)
}

func TestVendorTablesRegistered(t *testing.T) {
	// Both vendor files must be part of every build, whatever the host GOARCH.
	for _, raw := range []uint32{0x3ba00477, 0x0ba01477, 0x0ba10477, 0x20000913, 0x00005c25} {
		info := Lookup(raw)
		require.True(t, info.Known, "IDCODE 0x%08x", raw)
	}
	require.Len(t, known, 5)
}
