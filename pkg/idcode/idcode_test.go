package idcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIDCodeCortexM3DP(t *testing.T) {
	id := ParseIDCode(0x3ba00477)

	require.Equal(t, uint8(0x3), id.Version)
	require.Equal(t, uint16(0xba00), id.PartNumber)
	require.Equal(t, uint16(0x23b), id.ManufacturerCode)
	require.Equal(t, uint8(0x4), id.ContinuationCode)
	require.Equal(t, uint8(0x3b), id.IdentityCode)
	require.True(t, id.HasIDCode)
}

func TestLookupManufacturer(t *testing.T) {
	m, ok := LookupManufacturer(0x23b)
	require.True(t, ok)
	require.Equal(t, "ARM", m.Abbreviation)

	m, ok = LookupManufacturer(0x489)
	require.True(t, ok)
	require.Equal(t, "SiFive", m.Name)

	m, ok = LookupManufacturer(0x7ff)
	require.False(t, ok)
	require.Equal(t, "Unknown (0x7FF)", m.Name)
}

func TestIDCodeString(t *testing.T) {
	got := ParseIDCode(0x20000913).String()
	require.Equal(t, "0x20000913 (Mfg: SiFive, Part: 0x0000, Ver: 2)", got)
}
