package jtag

import (
	"fmt"
)

// RISC-V DTM instruction encodings.
const (
	IRBypass uint8 = 0x00
	IRIDCode uint8 = 0x01
	IRDTMCS  uint8 = 0x10
	IRDMI    uint8 = 0x11

	dtmIRLength = 5
)

// DMI op field values.
const (
	DMIOpNop   uint8 = 0
	DMIOpRead  uint8 = 1
	DMIOpWrite uint8 = 2
)

// Debug Module register addresses used by the simulated target.
const (
	DMData0      uint64 = 0x04
	DMControl    uint64 = 0x10
	DMStatus     uint64 = 0x11
	DMHartInfo   uint64 = 0x12
	DMAbstractCS uint64 = 0x16
	DMCommand    uint64 = 0x17
)

// DTMTarget emulates the JTAG side of a RISC-V Debug Transport Module with a
// flat Debug Module register file behind dmi. It is meant to be installed
// as a SimAdapter shift hook.
type DTMTarget struct {
	IDCode    uint32
	ABits     int
	Idle      int
	Registers map[uint64]uint32

	ir      uint8
	dmistat uint8
	result  uint64 // next dmi capture: addr | data | op
}

// NewDTMTarget returns a target in its post-reset state.
func NewDTMTarget(idcode uint32, abits int) *DTMTarget {
	t := &DTMTarget{
		IDCode: idcode,
		ABits:  abits,
		Idle:   5,
		Registers: map[uint64]uint32{
			DMStatus:  0x00400c82, // version 2, authenticated, all running
			DMControl: 0x00000001, // dmactive
		},
	}
	t.Reset(true)
	return t
}

// Reset selects IDCODE, as Test-Logic-Reset does. A hard reset also drops
// the pending dmi result.
func (t *DTMTarget) Reset(hard bool) {
	t.ir = IRIDCode
	if hard {
		t.dmistat = 0
		t.result = 0
	}
}

// DTMCS returns the current dtmcs capture value.
func (t *DTMTarget) DTMCS() uint32 {
	return 1 | uint32(t.ABits&0x3f)<<4 | uint32(t.dmistat&0x3)<<10 | uint32(t.Idle&0x7)<<12
}

// DRWidth returns the Data Register length for the selected instruction.
func (t *DTMTarget) DRWidth() int {
	switch t.ir {
	case IRIDCode, IRDTMCS:
		return 32
	case IRDMI:
		return t.ABits + 34
	}
	return 1
}

// Shift implements ShiftHook.
func (t *DTMTarget) Shift(region ShiftRegion, _, tdi []byte, bits int) ([]byte, error) {
	in := UnpackBits(tdi, bits)
	if region == ShiftRegionIR {
		if bits < dtmIRLength {
			return nil, fmt.Errorf("jtag: IR shift of %d bits shorter than %d", bits, dtmIRLength)
		}
		t.ir = uint8(UintFromBits(in[:dtmIRLength]))
		// IEEE 1149.1 requires the IR capture to end in 01.
		return PackBits(BitsFromUint(0x01, bits)), nil
	}

	switch t.ir {
	case IRIDCode:
		return PackBits(BitsFromUint(uint64(t.IDCode), bits)), nil
	case IRDTMCS:
		out := PackBits(BitsFromUint(uint64(t.DTMCS()), bits))
		v := UintFromBits(in)
		if v&(1<<16) != 0 {
			t.dmistat = 0
		}
		if v&(1<<17) != 0 {
			t.Reset(true)
			t.ir = IRDTMCS
		}
		return out, nil
	case IRDMI:
		return t.dmi(in, bits), nil
	}

	// BYPASS and anything else: a single-bit register delaying TDI by one.
	out := make([]bool, bits)
	copy(out[1:], in)
	return PackBits(out), nil
}

func (t *DTMTarget) dmi(in []bool, bits int) []byte {
	out := PackBits(BitsFromUint(t.result, bits))
	if bits != t.ABits+34 {
		t.dmistat = 2
		return out
	}

	v := UintFromBits(in)
	op := uint8(v & 0x3)
	data := uint32(v >> 2)
	addr := (v >> 34) & (1<<uint(t.ABits) - 1)

	switch op {
	case DMIOpRead:
		data = t.Registers[addr]
	case DMIOpWrite:
		t.write(addr, data)
	}
	t.result = addr<<34 | uint64(data)<<2 | uint64(t.dmistat)
	return out
}

func (t *DTMTarget) write(addr uint64, data uint32) {
	t.Registers[addr] = data
	if addr != DMControl {
		return
	}
	status := t.Registers[DMStatus]
	switch {
	case data&(1<<31) != 0: // haltreq
		status = status&^(3<<10) | 3<<8 // allhalted|anyhalted
	case data&(1<<30) != 0: // resumereq
		status = status&^(3<<8) | 3<<10 | 3<<16 // running, resumeack
	}
	t.Registers[DMStatus] = status
}

// DTMHost issues RISC-V DTM transactions through a Recorder.
type DTMHost struct {
	rec   *Recorder
	abits int
	ir    uint8
	valid bool
}

// NewDTMHost creates a host for a DTM with the given dmi address width.
func NewDTMHost(rec *Recorder, abits int) *DTMHost {
	return &DTMHost{rec: rec, abits: abits}
}

// Select loads ir unless it is already selected.
func (h *DTMHost) Select(ir uint8) error {
	if h.valid && h.ir == ir {
		return nil
	}
	if _, err := h.rec.ScanIR(BitsFromUint(uint64(ir), dtmIRLength)); err != nil {
		return err
	}
	h.ir, h.valid = ir, true
	return nil
}

// Reset resets the TAP, which selects IDCODE.
func (h *DTMHost) Reset() error {
	if err := h.rec.Reset(false); err != nil {
		return err
	}
	h.ir, h.valid = IRIDCode, true
	return nil
}

// ReadIDCode reads the 32-bit IDCODE.
func (h *DTMHost) ReadIDCode() (uint32, error) {
	if err := h.Select(IRIDCode); err != nil {
		return 0, err
	}
	tdo, err := h.rec.ScanDR(make([]bool, 32))
	if err != nil {
		return 0, err
	}
	return uint32(UintFromBits(tdo)), nil
}

// DTMCS reads dtmcs while writing the given dmireset/dmihardreset bits.
func (h *DTMHost) DTMCS(dmireset, dmihardreset bool) (uint32, error) {
	if err := h.Select(IRDTMCS); err != nil {
		return 0, err
	}
	tdi := make([]bool, 32)
	tdi[16], tdi[17] = dmireset, dmihardreset
	tdo, err := h.rec.ScanDR(tdi)
	if err != nil {
		return 0, err
	}
	return uint32(UintFromBits(tdo)), nil
}

// DMI performs one dmi scan and returns the previous access result as
// (addr, data, op).
func (h *DTMHost) DMI(op uint8, addr uint64, data uint32) (uint64, uint32, uint8, error) {
	if err := h.Select(IRDMI); err != nil {
		return 0, 0, 0, err
	}
	v := addr<<34 | uint64(data)<<2 | uint64(op&0x3)
	tdo, err := h.rec.ScanDR(BitsFromUint(v, h.abits+34))
	if err != nil {
		return 0, 0, 0, err
	}
	res := UintFromBits(tdo)
	return res >> 34, uint32(res >> 2), uint8(res & 0x3), nil
}

// ReadDM reads a Debug Module register: one read request followed by a nop
// that collects the result.
func (h *DTMHost) ReadDM(addr uint64) (uint32, error) {
	if _, _, _, err := h.DMI(DMIOpRead, addr, 0); err != nil {
		return 0, err
	}
	_, data, op, err := h.DMI(DMIOpNop, 0, 0)
	if err != nil {
		return 0, err
	}
	if op != 0 {
		return 0, fmt.Errorf("jtag: dmi read of 0x%x failed with op %d", addr, op)
	}
	return data, nil
}

// WriteDM writes a Debug Module register.
func (h *DTMHost) WriteDM(addr uint64, data uint32) error {
	_, _, _, err := h.DMI(DMIOpWrite, addr, data)
	return err
}
