package jtag

import "fmt"

// ShiftRegion tells IR scans apart from DR scans.
type ShiftRegion uint8

const (
	ShiftRegionIR ShiftRegion = iota
	ShiftRegionDR
)

func (r ShiftRegion) String() string {
	switch r {
	case ShiftRegionIR:
		return "IR"
	case ShiftRegionDR:
		return "DR"
	}
	return fmt.Sprintf("ShiftRegion(%d)", r)
}

// ShiftHook produces TDO for a scan. Buffers use the Adapter packing.
type ShiftHook func(region ShiftRegion, tms, tdi []byte, bits int) ([]byte, error)

// ResetHook observes ResetTAP calls.
type ResetHook func(hard bool)

// ShiftOp is one logged scan. The buffers are private copies.
type ShiftOp struct {
	Region ShiftRegion
	TMS    []byte
	TDI    []byte
	Bits   int
}

func (op ShiftOp) clone() ShiftOp {
	op.TMS = append([]byte(nil), op.TMS...)
	op.TDI = append([]byte(nil), op.TDI...)
	return op
}

// SimAdapter is an Adapter with no hardware behind it. Scans are logged
// and answered by OnShift, or echoed back when no hook is set.
type SimAdapter struct {
	InfoData AdapterInfo
	SpeedHz  int

	OnShift ShiftHook
	OnReset ResetHook

	log        []ShiftOp
	softResets int
	hardResets int
}

func NewSimAdapter(info AdapterInfo) *SimAdapter {
	return &SimAdapter{InfoData: info}
}

// NewTargetAdapter wires a simulated DTM behind a SimAdapter.
func NewTargetAdapter(target *DTMTarget) *SimAdapter {
	return &SimAdapter{
		InfoData: AdapterInfo{Name: "RISC-V DTM simulator", Notes: "simulated"},
		OnShift:  target.Shift,
		OnReset:  target.Reset,
	}
}

// LastShift returns the newest logged scan, or the zero ShiftOp.
func (s *SimAdapter) LastShift() ShiftOp {
	if n := len(s.log); n > 0 {
		return s.log[n-1].clone()
	}
	return ShiftOp{}
}

// History returns every logged scan, oldest first.
func (s *SimAdapter) History() []ShiftOp {
	out := make([]ShiftOp, 0, len(s.log))
	for _, op := range s.log {
		out = append(out, op.clone())
	}
	return out
}

// ResetCounts reports resets without and with the hard flag.
func (s *SimAdapter) ResetCounts() (soft, hard int) {
	return s.softResets + s.hardResets, s.hardResets
}

func (s *SimAdapter) Info() (AdapterInfo, error) { return s.InfoData, nil }

func (s *SimAdapter) ShiftIR(tms, tdi []byte, bits int) ([]byte, error) {
	return s.shift(ShiftRegionIR, tms, tdi, bits)
}

func (s *SimAdapter) ShiftDR(tms, tdi []byte, bits int) ([]byte, error) {
	return s.shift(ShiftRegionDR, tms, tdi, bits)
}

func (s *SimAdapter) ResetTAP(hard bool) error {
	if hard {
		s.hardResets++
	} else {
		s.softResets++
	}
	if s.OnReset != nil {
		s.OnReset(hard)
	}
	return nil
}

func (s *SimAdapter) SetSpeed(hz int) error {
	if hz <= 0 {
		return fmt.Errorf("jtag: invalid speed %dHz", hz)
	}
	s.SpeedHz = hz
	return nil
}

func (s *SimAdapter) shift(region ShiftRegion, tms, tdi []byte, bits int) ([]byte, error) {
	n, err := ValidateShiftBuffers(tms, tdi, bits)
	if err != nil {
		return nil, err
	}
	s.log = append(s.log, ShiftOp{Region: region, TMS: tms, TDI: tdi, Bits: bits}.clone())

	if s.OnShift != nil {
		return s.OnShift(region, tms, tdi, bits)
	}
	tdo := make([]byte, n)
	copy(tdo, tdi)
	return tdo, nil
}
