package riscv

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceRV/pkg/idcode"
)

// Direction of a Data Register shift.
type Direction uint8

const (
	DirIn  Direction = iota // TDI, host to device
	DirOut                  // TDO, device to host
)

func (d Direction) String() string {
	if d == DirOut {
		return "DR TDO"
	}
	return "DR TDI"
}

// Field is a decoded sub-field bound to register bits [Lo, Hi).
type Field struct {
	Lo, Hi  int
	Channel Channel
	Text    []string
}

// Decoded is what a register decoder produced for one Data Register event.
type Decoded struct {
	Fields   []Field
	Warnings []Field
	Channel  Channel // channel of Summary
	Summary  []string

	idcode    uint32
	hasIDCode bool
}

type decodeFunc func(dir Direction, c Capture) (Decoded, error)

// fieldReader keeps the first slicing error so a decoder can read all of
// its fields and check once.
type fieldReader struct {
	c   Capture
	err error
}

func (r *fieldReader) uint(lo, hi int) uint64 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.Uint(lo, hi)
	r.err = err
	return v
}

func (r *fieldReader) bits(lo, hi int) string {
	if r.err != nil {
		return ""
	}
	s, err := r.c.Field(lo, hi)
	r.err = err
	return s
}

func need(name string, c Capture, width int) error {
	if c.Len() < width {
		return fmt.Errorf("%w: %s needs %d bits, captured %d", ErrOutOfRange, name, width, c.Len())
	}
	return nil
}

func decodeBypass(_ Direction, c Capture) (Decoded, error) {
	return Decoded{
		Channel: ChannelItem,
		Summary: []string{"BYPASS: " + c.Bits, "BYPASS", "B"},
	}, nil
}

// decodeIDCODE reads the 32 least significant bits; anything shifted in
// ahead of them is ignored.
func decodeIDCODE(_ Direction, c Capture) (Decoded, error) {
	if err := need("IDCODE", c, 32); err != nil {
		return Decoded{}, err
	}
	r := fieldReader{c: c}
	cc := r.uint(8, 12)
	ic := r.uint(1, 8)
	manuf := r.uint(1, 12)
	part := r.uint(12, 28)
	ver := r.uint(28, 32)
	raw := r.uint(0, 32)
	if r.err != nil {
		return Decoded{}, r.err
	}

	d := Decoded{
		Fields: []Field{
			{Lo: 0, Hi: 1, Channel: ChannelField, Text: []string{"Reserved", "Res", "R"}},
			{Lo: 8, Hi: 12, Channel: ChannelItem, Text: []string{fmt.Sprintf("Continuation code: 0x%x", cc), "CC", "C"}},
			{Lo: 1, Hi: 8, Channel: ChannelItem, Text: []string{fmt.Sprintf("Identity code: 0x%x", ic), "IC", "I"}},
			{Lo: 1, Hi: 12, Channel: ChannelField, Text: []string{fmt.Sprintf("Manufacturer: 0x%x", manuf), "Manuf", "M"}},
			{Lo: 12, Hi: 28, Channel: ChannelField, Text: []string{fmt.Sprintf("Part: 0x%x", part), "Part", "P"}},
			{Lo: 28, Hi: 32, Channel: ChannelField, Text: []string{fmt.Sprintf("Version: 0x%x", ver), "Version", "V"}},
		},
		Channel:   ChannelCommand,
		Summary:   []string{fmt.Sprintf("IDCODE: (%x: %x/%x)", manuf, ver, part)},
		idcode:    uint32(raw),
		hasIDCode: true,
	}
	if m, ok := idcode.LookupManufacturer(uint16(manuf)); ok {
		d.Fields = append(d.Fields, Field{Lo: 1, Hi: 12, Channel: ChannelItem, Text: []string{"Designer: " + m.Name, m.Abbreviation}})
	}
	return d, nil
}

// decodeAbort reads the 32 least significant bits. Bits 31:1 are reserved
// and must be zero.
func decodeAbort(_ Direction, c Capture) (Decoded, error) {
	if err := need("ABORT", c, 32); err != nil {
		return Decoded{}, err
	}
	r := fieldReader{c: c}
	dap := r.bits(0, 1)
	reserved := r.bits(1, 32)
	if r.err != nil {
		return Decoded{}, r.err
	}

	not := "No "
	if dap == "1" {
		not = ""
	}
	d := Decoded{
		Fields: []Field{
			{Lo: 0, Hi: 1, Channel: ChannelField, Text: []string{"DAPABORT: " + dap, "DAPABORT", "D"}},
		},
		Channel: ChannelCommand,
		Summary: []string{fmt.Sprintf("DAPABORT = %s: %sDAP abort generated", dap, not)},
	}
	if !IsAllZero(reserved) {
		d.Warnings = append(d.Warnings, Field{
			Lo: 1, Hi: 32, Channel: ChannelWarning,
			Text: []string{"WARNING: DAPABORT[31:1] reserved!", "Reserved!", "R!"},
		})
	}
	return d, nil
}

// decodeAccess returns the DPACC or APACC decoder. Shift-in carries
// DATA | A[3:2] | RnW, shift-out carries DATA | ACK[2:0].
func decodeAccess(port string) decodeFunc {
	return func(dir Direction, c Capture) (Decoded, error) {
		if err := need(port, c, 4); err != nil {
			return Decoded{}, err
		}
		n := c.Len()
		r := fieldReader{c: c}
		data := r.uint(3, n)

		if dir == DirOut {
			ack := r.bits(0, 3)
			ackVal := r.uint(0, 3)
			if r.err != nil {
				return Decoded{}, r.err
			}
			meaning, ok := ackValues[ack]
			if !ok {
				meaning = "Reserved"
			}
			return Decoded{
				Fields: []Field{
					{Lo: 3, Hi: n, Channel: ChannelField, Text: []string{fmt.Sprintf("DATA: 0x%x", data), "DATA", "D"}},
					{Lo: 0, Hi: 3, Channel: ChannelField, Text: []string{fmt.Sprintf("ACK: 0x%x (%s)", ackVal, meaning), "ACK", "A"}},
				},
				Channel: ChannelCommand,
				Summary: []string{fmt.Sprintf("Previous transaction result: DATA: 0x%x, ACK: %s", data, meaning)},
			}, nil
		}

		a := r.bits(1, 3)
		aVal := r.uint(1, 3)
		rnw := r.bits(0, 1)
		if r.err != nil {
			return Decoded{}, r.err
		}
		reg := fmt.Sprintf("0x%x", aVal<<2)
		if port == "DPACC" {
			reg = dpRegisters[a]
		}
		req := "Write request"
		if rnw == "1" {
			req = "Read request"
		}
		return Decoded{
			Fields: []Field{
				{Lo: 3, Hi: n, Channel: ChannelField, Text: []string{fmt.Sprintf("DATA: 0x%x", data), "DATA", "D"}},
				{Lo: 1, Hi: 3, Channel: ChannelField, Text: []string{"A: " + reg, "A"}},
				{Lo: 0, Hi: 1, Channel: ChannelField, Text: []string{"RnW: " + rnw, "RnW", "R"}},
			},
			Channel: ChannelCommand,
			Summary: []string{fmt.Sprintf("New transaction: DATA: 0x%x, A: %s, RnW: %s", data, reg, req)},
		}, nil
	}
}

// decodeDtmcs decodes the status half of dtmcs on shift-in and the reset
// controls on shift-out.
func decodeDtmcs(dir Direction, c Capture) (Decoded, error) {
	r := fieldReader{c: c}
	if dir == DirOut {
		reset := r.bits(16, 17)
		hard := r.bits(17, 18)
		if r.err != nil {
			return Decoded{}, r.err
		}
		return Decoded{
			Fields: []Field{
				{Lo: 16, Hi: 17, Channel: ChannelField, Text: []string{"dmireset: " + reset, "dmireset"}},
				{Lo: 17, Hi: 18, Channel: ChannelField, Text: []string{"dmihardreset: " + hard, "dmihardreset"}},
			},
			Channel: ChannelCommand,
			Summary: []string{fmt.Sprintf("dmireset: %s dmihardreset: %s", reset, hard)},
		}, nil
	}

	version := r.uint(0, 4)
	abits := r.uint(4, 10)
	dmistat := r.uint(10, 12)
	idle := r.uint(12, 15)
	if r.err != nil {
		return Decoded{}, r.err
	}
	ver, ok := dtmcsVersions[version]
	if !ok {
		ver = "reserved"
	}
	return Decoded{
		Fields: []Field{
			{Lo: 0, Hi: 4, Channel: ChannelField, Text: []string{fmt.Sprintf("version: 0x%x (%s)", version, ver), "version"}},
			{Lo: 4, Hi: 10, Channel: ChannelField, Text: []string{fmt.Sprintf("abits: 0x%x", abits), "abits"}},
			{Lo: 10, Hi: 12, Channel: ChannelField, Text: []string{fmt.Sprintf("dmistat: 0x%x (%s)", dmistat, dmiStatuses[dmistat]), "dmistat"}},
			{Lo: 12, Hi: 15, Channel: ChannelField, Text: []string{fmt.Sprintf("idle: 0x%x", idle), "idle"}},
		},
		Channel: ChannelCommand,
		Summary: []string{fmt.Sprintf("version: 0x%x abits: 0x%x dmistat: 0x%x idle: 0x%x", version, abits, dmistat, idle)},
	}, nil
}

// dmiFixedBits is the op + data part of a dmi access; whatever precedes it
// is the address.
const dmiFixedBits = 34

func decodeDmi(dir Direction, c Capture) (Decoded, error) {
	n := c.Len()
	r := fieldReader{c: c}
	if n <= dmiFixedBits {
		v := r.uint(0, n)
		if r.err != nil {
			return Decoded{}, r.err
		}
		return Decoded{
			Channel: ChannelCommand,
			Summary: []string{fmt.Sprintf("%s 0x%x", dir, v)},
		}, nil
	}

	op := r.uint(0, 2)
	data := r.uint(2, dmiFixedBits)
	addr := r.uint(dmiFixedBits, n)
	if r.err != nil {
		return Decoded{}, r.err
	}
	ops := dmiRequestOps
	if dir == DirOut {
		ops = dmiResponseOps
	}
	addrText := fmt.Sprintf("Address: 0x%x", addr)
	if reg, ok := LookupDMI(addr); ok {
		addrText += " (" + reg.Name + ")"
	}
	return Decoded{
		Fields: []Field{
			{Lo: dmiFixedBits, Hi: n, Channel: ChannelField, Text: []string{addrText, "Addr", "A"}},
			{Lo: 2, Hi: dmiFixedBits, Channel: ChannelField, Text: []string{fmt.Sprintf("Data: 0x%x", data), "Data", "D"}},
			{Lo: 0, Hi: 2, Channel: ChannelField, Text: []string{fmt.Sprintf("Op: 0x%x (%s)", op, ops[op]), "Op", "O"}},
		},
		Channel: ChannelCommand,
		Summary: []string{fmt.Sprintf("%s instr: 0x%x addr: 0x%x data: 0x%x", dir, op, addr, data)},
	}, nil
}

func decodeUnknown(_ Direction, c Capture) (Decoded, error) {
	return Decoded{
		Channel: ChannelCommand,
		Summary: []string{"Unknown instruction: " + c.Bits, "Unknown"},
	}, nil
}
