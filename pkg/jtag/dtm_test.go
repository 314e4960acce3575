package jtag

import (
	"fmt"
	"testing"
)

func hex32(v uint32) string {
	return fmt.Sprintf("%x", v)
}

func newHost(t *testing.T, abits int) (*DTMTarget, *SimAdapter, *DTMHost) {
	t.Helper()
	target := NewDTMTarget(0x20000913, abits)
	sim := NewTargetAdapter(target)
	host := NewDTMHost(NewRecorder(sim, 0), abits)
	if err := host.Reset(); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	return target, sim, host
}

func TestDTMCSValue(t *testing.T) {
	target := NewDTMTarget(0x20000913, 7)
	if got := target.DTMCS(); got != 0x5071 {
		t.Fatalf("DTMCS = %#x, want 0x5071", got)
	}
	if target.DRWidth() != 32 {
		t.Fatalf("post-reset DR width = %d, want 32 (IDCODE)", target.DRWidth())
	}
}

func TestDTMHostReadWrite(t *testing.T) {
	target, sim, host := newHost(t, 7)

	if err := host.WriteDM(DMData0, 0xcafef00d); err != nil {
		t.Fatalf("WriteDM returned error: %v", err)
	}
	got, err := host.ReadDM(DMData0)
	if err != nil {
		t.Fatalf("ReadDM returned error: %v", err)
	}
	if got != 0xcafef00d {
		t.Fatalf("ReadDM = %#x, want 0xcafef00d", got)
	}
	if target.Registers[DMData0] != 0xcafef00d {
		t.Fatalf("target data0 = %#x", target.Registers[DMData0])
	}

	irShifts := 0
	for _, op := range sim.History() {
		if op.Region == ShiftRegionIR {
			irShifts++
		}
	}
	if irShifts != 1 {
		t.Fatalf("dmi selected %d times, want once", irShifts)
	}
}

func TestDTMHostHaltResume(t *testing.T) {
	_, _, host := newHost(t, 7)

	if err := host.WriteDM(DMControl, 1<<31|1); err != nil {
		t.Fatalf("haltreq: %v", err)
	}
	status, err := host.ReadDM(DMStatus)
	if err != nil {
		t.Fatalf("ReadDM returned error: %v", err)
	}
	if status&(3<<8) != 3<<8 || status&(3<<10) != 0 {
		t.Fatalf("dmstatus after haltreq = %#x", status)
	}

	if err := host.WriteDM(DMControl, 1<<30|1); err != nil {
		t.Fatalf("resumereq: %v", err)
	}
	status, err = host.ReadDM(DMStatus)
	if err != nil {
		t.Fatalf("ReadDM returned error: %v", err)
	}
	if status&(3<<8) != 0 || status&(3<<16) != 3<<16 {
		t.Fatalf("dmstatus after resumereq = %#x", status)
	}
}

func TestDTMWrongWidthSetsDmistat(t *testing.T) {
	target, sim, host := newHost(t, 7)
	if err := host.Select(IRDMI); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if _, err := sim.ShiftDR(nil, make([]byte, 2), 10); err != nil {
		t.Fatalf("ShiftDR returned error: %v", err)
	}
	if got := (target.DTMCS() >> 10) & 3; got != 2 {
		t.Fatalf("dmistat = %d, want 2", got)
	}

	// Host state is stale after the raw shift; force a fresh IR load.
	host.valid = false
	dtmcs, err := host.DTMCS(true, false)
	if err != nil {
		t.Fatalf("DTMCS returned error: %v", err)
	}
	if (dtmcs>>10)&3 != 2 {
		t.Fatalf("captured dmistat = %d, want 2", (dtmcs>>10)&3)
	}
	if got := (target.DTMCS() >> 10) & 3; got != 0 {
		t.Fatalf("dmireset left dmistat = %d", got)
	}
}

func TestDTMShortIRFails(t *testing.T) {
	target := NewDTMTarget(0x20000913, 7)
	if _, err := target.Shift(ShiftRegionIR, nil, []byte{0x1}, 3); err == nil {
		t.Fatalf("expected error for short IR shift")
	}
}
