package riscv

import (
	"fmt"
	"sort"
	"strings"
)

// Instruction describes one Instruction Register encoding.
type Instruction struct {
	Pattern     string // IR bits, MSB first
	Name        string // symbolic register name
	Register    State  // decoder selected by the encoding
	Width       int    // expected Data Register width, 0 when unknown
	Description string
}

// UnknownInstruction is returned for patterns missing from a catalog.
var UnknownInstruction = Instruction{Name: "UNKNOWN", Register: StateUnknown}

// Catalog is an immutable Instruction Register table for one TAP flavour.
type Catalog struct {
	Name     string
	IRLength int
	entries  []Instruction
}

// Entries returns a copy of the catalog entries ordered by pattern.
func (c *Catalog) Entries() []Instruction {
	out := make([]Instruction, len(c.entries))
	copy(out, c.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Pattern < out[j].Pattern })
	return out
}

// Lookup resolves the leading IRLength bits of an IR capture. Captures
// shorter than the IR, and patterns with no entry, resolve to
// UnknownInstruction.
func (c *Catalog) Lookup(ir string) Instruction {
	if len(ir) < c.IRLength {
		return UnknownInstruction
	}
	pattern := ir[:c.IRLength]
	for _, ins := range c.entries {
		if MatchesPattern(pattern, ins.Pattern) {
			return ins
		}
	}
	unknown := UnknownInstruction
	unknown.Pattern = pattern
	return unknown
}

// RISC-V External Debug Support 0.13.2, section 6.1.2.
var RISCV = &Catalog{
	Name:     "riscv",
	IRLength: 5,
	entries: []Instruction{
		{Pattern: "00000", Name: "BYPASS", Register: StateBypass, Width: 1, Description: "JTAG recommends this encoding"},
		{Pattern: "00001", Name: "IDCODE", Register: StateIdcode, Width: 32, Description: "To identify a specific silicon version"},
		{Pattern: "10000", Name: "dtmcs", Register: StateDtmcs, Width: 32, Description: "DTM Control and Status"},
		// abits + 34; 41 assumes the common abits of 7.
		{Pattern: "10001", Name: "dmi", Register: StateDmi, Width: 41, Description: "Debug Module Interface Access"},
		{Pattern: "10010", Name: "UNKNOWN", Register: StateUnknown, Width: 0, Description: "Reserved for future RISC-V debugging"},
		{Pattern: "10011", Name: "UNKNOWN", Register: StateUnknown, Width: 0, Description: "Reserved for future RISC-V debugging"},
		{Pattern: "10100", Name: "UNKNOWN", Register: StateUnknown, Width: 0, Description: "Reserved for future RISC-V debugging"},
		{Pattern: "10101", Name: "UNKNOWN", Register: StateUnknown, Width: 0, Description: "Reserved for future RISC-V debugging"},
		{Pattern: "10110", Name: "UNKNOWN", Register: StateUnknown, Width: 0, Description: "Reserved for future RISC-V debugging"},
		{Pattern: "10111", Name: "UNKNOWN", Register: StateUnknown, Width: 0, Description: "Reserved for future RISC-V debugging"},
		{Pattern: "11111", Name: "BYPASS", Register: StateBypass, Width: 1, Description: "JTAG requires this encoding"},
	},
}

// ARMJTAGDP is the 4-bit IR of an ARM JTAG Debug Port, the only TAP that
// selects ABORT, DPACC and APACC.
var ARMJTAGDP = &Catalog{
	Name:     "arm-jtag-dp",
	IRLength: 4,
	entries: []Instruction{
		{Pattern: "1000", Name: "ABORT", Register: StateAbort, Width: 35, Description: "JTAG-DP Abort Register"},
		{Pattern: "1010", Name: "DPACC", Register: StateDpacc, Width: 35, Description: "JTAG DP Access Register"},
		{Pattern: "1011", Name: "APACC", Register: StateApacc, Width: 35, Description: "JTAG AP Access Register"},
		{Pattern: "1110", Name: "IDCODE", Register: StateIdcode, Width: 32, Description: "JTAG Device ID Code Register"},
		{Pattern: "1111", Name: "BYPASS", Register: StateBypass, Width: 1, Description: "JTAG Bypass Register"},
	},
}

var catalogs = map[string]*Catalog{
	RISCV.Name:     RISCV,
	ARMJTAGDP.Name: ARMJTAGDP,
}

// LookupCatalog returns a built-in catalog by name.
func LookupCatalog(name string) (*Catalog, error) {
	if c, ok := catalogs[strings.ToLower(name)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("riscv: unknown catalog %q", name)
}

// CatalogNames lists the built-in catalog names.
func CatalogNames() []string {
	names := make([]string, 0, len(catalogs))
	for name := range catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DMIRegister names one address of the Debug Module Interface.
type DMIRegister struct {
	Address     uint64
	Name        string
	Description string
}

// RISC-V External Debug Support 1.0.0, section 3.14, table 3.8.
var dmiRegisters = map[uint64]DMIRegister{}

func init() {
	add := func(addr uint64, name, desc string) {
		dmiRegisters[addr] = DMIRegister{Address: addr, Name: name, Description: desc}
	}
	for i := uint64(0); i < 12; i++ {
		add(0x04+i, fmt.Sprintf("data%d", i), fmt.Sprintf("Abstract Data %d", i))
	}
	add(0x10, "dmcontrol", "Debug Module Control")
	add(0x11, "dmstatus", "Debug Module Status")
	add(0x12, "hartinfo", "Hart Info")
	add(0x13, "haltsum1", "Halt Summary 1")
	add(0x14, "hawindowsel", "Hart Array Window Select")
	add(0x15, "hawindow", "Hart Array Window")
	add(0x16, "abstractcs", "Abstract Control and Status")
	add(0x17, "command", "Abstract Command")
	add(0x18, "abstractauto", "Abstract Command Autoexec")
	for i := uint64(0); i < 4; i++ {
		add(0x19+i, fmt.Sprintf("confstrptr%d", i), fmt.Sprintf("Configuration String Pointer %d", i))
	}
	add(0x1d, "nextdm", "Next Debug Module")
	add(0x1f, "custom", "Custom Features")
	for i := uint64(0); i < 16; i++ {
		add(0x20+i, fmt.Sprintf("progbuf%d", i), fmt.Sprintf("Program Buffer %d", i))
	}
	add(0x30, "authdata", "Authentication Data")
	add(0x32, "dmcs2", "Debug Module Control and Status 2")
	add(0x34, "haltsum2", "Halt Summary 2")
	add(0x35, "haltsum3", "Halt Summary 3")
	add(0x37, "sbaddress3", "System Bus Address 127:96")
	add(0x38, "sbcs", "System Bus Access Control and Status")
	add(0x39, "sbaddress0", "System Bus Address 31:0")
	add(0x3a, "sbaddress1", "System Bus Address 63:32")
	add(0x3b, "sbaddress2", "System Bus Address 95:64")
	add(0x3c, "sbdata0", "System Bus Data 31:0")
	add(0x3d, "sbdata1", "System Bus Data 63:32")
	add(0x3e, "sbdata2", "System Bus Data 95:64")
	add(0x3f, "sbdata3", "System Bus Data 127:96")
	add(0x40, "haltsum0", "Halt Summary 0")
	for i := uint64(0); i < 16; i++ {
		add(0x70+i, fmt.Sprintf("custom%d", i), fmt.Sprintf("Custom Features %d", i))
	}
}

// LookupDMI returns the Debug Module register at addr, if documented.
func LookupDMI(addr uint64) (DMIRegister, bool) {
	reg, ok := dmiRegisters[addr]
	return reg, ok
}

// DMIRegisters returns the documented DMI map ordered by address.
func DMIRegisters() []DMIRegister {
	out := make([]DMIRegister, 0, len(dmiRegisters))
	for _, reg := range dmiRegisters {
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// dmiRequestOps and dmiResponseOps decode the 2-bit dmi op field.
var dmiRequestOps = [4]string{"nop", "read", "write", "reserved"}
var dmiResponseOps = [4]string{"success", "reserved", "failed", "busy"}

// dpRegisters names DP registers addressed through DPACC A[3:2].
var dpRegisters = map[string]string{
	"00": "Reserved",
	"01": "DP CTRL/STAT",
	"10": "DP SELECT",
	"11": "DP RDBUFF",
}

// ackValues holds the DPACC/APACC ACK[2:0] codes; the rest are reserved.
var ackValues = map[string]string{
	"001": "WAIT",
	"010": "OK/FAULT",
}

var dtmcsVersions = map[uint64]string{
	0:  "0.11",
	1:  "0.13/1.0",
	15: "custom",
}

var dmiStatuses = [4]string{"no error", "reserved", "op failed", "busy"}
