package riscv

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRISCVCatalogLookup(t *testing.T) {
	cases := map[string]State{
		"00000": StateBypass,
		"11111": StateBypass,
		"00001": StateIdcode,
		"10000": StateDtmcs,
		"10001": StateDmi,
		"10010": StateUnknown,
		"10111": StateUnknown,
		"01010": StateUnknown,
	}
	for pattern, want := range cases {
		require.Equal(t, want, RISCV.Lookup(pattern).Register, pattern)
	}

	// Only the leading IR-length bits select the entry.
	require.Equal(t, "dmi", RISCV.Lookup("100011").Name)

	short := RISCV.Lookup("100")
	require.Equal(t, StateUnknown, short.Register)
	require.Equal(t, "UNKNOWN", short.Name)

	unlisted := RISCV.Lookup("01100")
	require.Equal(t, "01100", unlisted.Pattern)
}

func TestReservedInstructionsCollapseToUnknown(t *testing.T) {
	miss := RISCV.Lookup("01100")
	for v := 0x12; v <= 0x17; v++ {
		ins := RISCV.Lookup(bin(uint64(v), 5))
		require.Equal(t, "UNKNOWN", ins.Name, "0x%02x", v)
		require.Equal(t, StateUnknown, ins.Register, "0x%02x", v)
		require.Equal(t, miss.Width, ins.Width, "0x%02x", v)
		require.Zero(t, ins.Width, "0x%02x", v)
	}
}

func TestARMCatalogLookup(t *testing.T) {
	require.Equal(t, StateAbort, ARMJTAGDP.Lookup("1000").Register)
	require.Equal(t, StateDpacc, ARMJTAGDP.Lookup("1010").Register)
	require.Equal(t, StateApacc, ARMJTAGDP.Lookup("1011").Register)
	require.Equal(t, StateIdcode, ARMJTAGDP.Lookup("1110").Register)
	require.Equal(t, StateBypass, ARMJTAGDP.Lookup("1111").Register)
	require.Equal(t, StateUnknown, ARMJTAGDP.Lookup("0000").Register)
}

func TestCatalogEntriesAreOrderedCopies(t *testing.T) {
	entries := RISCV.Entries()
	require.Len(t, entries, 11)
	require.True(t, sort.SliceIsSorted(entries, func(i, j int) bool {
		return entries[i].Pattern < entries[j].Pattern
	}))
	for _, ins := range entries {
		require.Len(t, ins.Pattern, RISCV.IRLength)
	}

	entries[0].Name = "clobbered"
	require.NotEqual(t, "clobbered", RISCV.Entries()[0].Name)
}

func TestLookupCatalog(t *testing.T) {
	c, err := LookupCatalog("ARM-JTAG-DP")
	require.NoError(t, err)
	require.Same(t, ARMJTAGDP, c)

	_, err = LookupCatalog("xtensa")
	require.Error(t, err)

	require.Equal(t, []string{"arm-jtag-dp", "riscv"}, CatalogNames())
}

func TestDMIRegisterMap(t *testing.T) {
	reg, ok := LookupDMI(0x11)
	require.True(t, ok)
	require.Equal(t, "dmstatus", reg.Name)

	reg, ok = LookupDMI(0x27)
	require.True(t, ok)
	require.Equal(t, "progbuf7", reg.Name)

	_, ok = LookupDMI(0x01)
	require.False(t, ok)

	all := DMIRegisters()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		require.Less(t, all[i-1].Address, all[i].Address)
	}
}
