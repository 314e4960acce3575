package jtag

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceRV/pkg/riscv"
	"github.com/OpenTraceLab/OpenTraceRV/pkg/tap"
)

// DefaultSamplesPerClock is the sample count of one TCK period in recorded
// traces.
const DefaultSamplesPerClock = 10

// Recorder drives an Adapter through complete IR/DR scans and records what a
// logic analyser front end would have reported: TAP state changes and the
// TDI/TDO bits of every shift, each bit stamped with the samples of its TCK
// period.
type Recorder struct {
	adapter         Adapter
	tap             *tap.StateMachine
	samplesPerClock int64
	clock           int64
	events          []riscv.RawEvent
}

// NewRecorder wraps adapter. The TAP is assumed to start in
// Test-Logic-Reset. A non-positive samplesPerClock selects the default.
func NewRecorder(adapter Adapter, samplesPerClock int64) *Recorder {
	if samplesPerClock <= 0 {
		samplesPerClock = DefaultSamplesPerClock
	}
	return &Recorder{
		adapter:         adapter,
		tap:             tap.NewStateMachine(),
		samplesPerClock: samplesPerClock,
	}
}

// Events returns the recorded front-end records.
func (r *Recorder) Events() []riscv.RawEvent {
	out := make([]riscv.RawEvent, len(r.events))
	copy(out, r.events)
	return out
}

// State returns the tracked TAP state.
func (r *Recorder) State() tap.State {
	return r.tap.State()
}

// Reset resets the adapter and clocks the TAP into Test-Logic-Reset. The
// reset state is always recorded, even when the TAP was already there.
func (r *Recorder) Reset(hard bool) error {
	if err := r.adapter.ResetTAP(hard); err != nil {
		return fmt.Errorf("jtag: reset: %w", err)
	}
	before := len(r.events)
	seq := r.tap.Reset()
	r.recordStates(seq.States[0], seq.States[1:])
	if len(r.events) == before {
		r.recordState(r.clock-1, tap.StateTestLogicReset)
	}
	return nil
}

// Idle parks the TAP in Run-Test/Idle for the given number of clocks.
func (r *Recorder) Idle(clocks int) error {
	if _, err := r.goTo(tap.StateRunTestIdle); err != nil {
		return err
	}
	r.clock += int64(clocks)
	return nil
}

// ScanIR shifts tdi (LSB first) through the instruction register and
// returns the captured TDO bits.
func (r *Recorder) ScanIR(tdi []bool) ([]bool, error) {
	return r.scan(ShiftRegionIR, tdi)
}

// ScanDR shifts tdi (LSB first) through the selected data register and
// returns the captured TDO bits.
func (r *Recorder) ScanDR(tdi []bool) ([]bool, error) {
	return r.scan(ShiftRegionDR, tdi)
}

func (r *Recorder) scan(region ShiftRegion, tdi []bool) ([]bool, error) {
	n := len(tdi)
	if n == 0 {
		return nil, fmt.Errorf("jtag: empty %s scan", region)
	}

	shiftState, tdiKind, tdoKind := tap.StateShiftDR, riscv.CommandDRTDI, riscv.CommandDRTDO
	shift := r.adapter.ShiftDR
	if region == ShiftRegionIR {
		shiftState, tdiKind, tdoKind = tap.StateShiftIR, riscv.CommandIRTDI, riscv.CommandIRTDO
		shift = r.adapter.ShiftIR
	}

	if _, err := r.goTo(shiftState); err != nil {
		return nil, err
	}

	// Stay in Shift-xR for n-1 clocks, leave to Exit1-xR on the last bit.
	tms := make([]bool, n)
	tms[n-1] = true
	out, err := shift(PackBits(tms), PackBits(tdi), n)
	if err != nil {
		return nil, fmt.Errorf("jtag: %s shift: %w", region, err)
	}
	tdo := UnpackBits(out, n)

	first := r.clock
	r.recordShift(tdiKind, first, tdi)
	r.recordShift(tdoKind, first, tdo)
	prev := r.tap.State()
	states := r.tap.Walk(tms)
	r.clock = first
	r.recordStates(prev, states)

	if _, err := r.goTo(tap.StateRunTestIdle); err != nil {
		return nil, err
	}
	return tdo, nil
}

// goTo moves the TAP along the shortest path, recording every state entered.
func (r *Recorder) goTo(target tap.State) (tap.Sequence, error) {
	prev := r.tap.State()
	seq, err := r.tap.GoTo(target)
	if err != nil {
		return seq, err
	}
	if len(seq.States) > 1 {
		r.recordStates(prev, seq.States[1:])
	}
	return seq, nil
}

// recordStates consumes one clock per entry and records an event whenever
// the state differs from the one before it.
func (r *Recorder) recordStates(prev tap.State, states []tap.State) {
	for _, st := range states {
		if st != prev {
			r.recordState(r.clock, st)
		}
		prev = st
		r.clock++
	}
}

func (r *Recorder) recordState(clock int64, st tap.State) {
	r.events = append(r.events, riscv.RawEvent{
		Kind:  riscv.CommandStateChange,
		Start: clock * r.samplesPerClock,
		End:   (clock + 1) * r.samplesPerClock,
		State: st.IEEEName(),
	})
}

// recordShift stores bits shifted during clocks [first, first+len(bits)).
// Samples run parallel to the MSB-first bit string, so the last entry
// belongs to the first clock.
func (r *Recorder) recordShift(kind riscv.CommandKind, first int64, bits []bool) {
	n := len(bits)
	samples := make([]riscv.SampleRange, n)
	for i := 0; i < n; i++ {
		clock := first + int64(i)
		samples[n-1-i] = riscv.SampleRange{
			Start: clock * r.samplesPerClock,
			End:   (clock + 1) * r.samplesPerClock,
		}
	}
	r.events = append(r.events, riscv.RawEvent{
		Kind:    kind,
		Start:   first * r.samplesPerClock,
		End:     (first + int64(n)) * r.samplesPerClock,
		Bits:    BitString(bits),
		Samples: samples,
	})
}
