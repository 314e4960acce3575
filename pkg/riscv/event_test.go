package riscv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyReversesSamples(t *testing.T) {
	raw := RawEvent{
		Kind:  CommandDRTDI,
		Start: 0,
		End:   30,
		Bits:  "110",
		Samples: []SampleRange{
			{Start: 20, End: 30}, // MSB, shifted last
			{Start: 10, End: 20},
			{Start: 0, End: 10}, // LSB, shifted first
		},
	}
	orig := append([]SampleRange(nil), raw.Samples...)

	ev, err := Classify(raw)
	require.NoError(t, err)
	require.Equal(t, EventDRShiftIn, ev.Kind)
	require.Equal(t, "110", ev.Capture.Bits)
	require.Equal(t, []SampleRange{{0, 10}, {10, 20}, {20, 30}}, ev.Capture.Samples)
	require.Equal(t, orig, raw.Samples, "caller samples must not be modified")
}

func TestClassifyKinds(t *testing.T) {
	kinds := map[CommandKind]EventKind{
		CommandIRTDI: EventIRLoad,
		CommandIRTDO: EventIRCapture,
		CommandDRTDI: EventDRShiftIn,
		CommandDRTDO: EventDRShiftOut,
	}
	for cmd, want := range kinds {
		ev, err := Classify(shifted(cmd, "01", 0))
		require.NoError(t, err)
		require.Equal(t, want, ev.Kind, cmd.String())
	}

	ev, err := Classify(stateChange("SHIFT-DR", 5))
	require.NoError(t, err)
	require.Equal(t, EventStateChange, ev.Kind)
	require.Equal(t, "SHIFT-DR", ev.State)
}

func TestClassifyRejectsMalformed(t *testing.T) {
	good := shifted(CommandDRTDI, "101", 0)

	unknown := good
	unknown.Kind = CommandKind(42)

	inverted := good
	inverted.End = -1

	noBits := good
	noBits.Bits = ""

	notBinary := good
	notBinary.Bits = "1x1"

	mismatch := good
	mismatch.Samples = mismatch.Samples[:2]

	noState := RawEvent{Kind: CommandStateChange, Start: 0, End: 1}

	zeroLength := stateChange("RUN-TEST/IDLE", 7)
	zeroLength.End = zeroLength.Start

	emptyBit := good
	emptyBit.Samples = append([]SampleRange(nil), good.Samples...)
	emptyBit.Samples[1] = SampleRange{Start: 10, End: 10}

	outOfOrder := good
	outOfOrder.Samples = []SampleRange{{0, 10}, {10, 20}, {20, 30}}

	for name, raw := range map[string]RawEvent{
		"unknown kind": unknown,
		"inverted":     inverted,
		"no bits":      noBits,
		"not binary":   notBinary,
		"mismatch":     mismatch,
		"no state":     noState,
		"zero length":  zeroLength,
		"empty bit":    emptyBit,
		"out of order": outOfOrder,
	} {
		_, err := Classify(raw)
		require.True(t, errors.Is(err, ErrMalformedEvent), name)
	}
}

func TestParseCommandKind(t *testing.T) {
	cases := map[string]CommandKind{
		"STATE":     CommandStateChange,
		"NEW STATE": CommandStateChange,
		"ir_tdi":    CommandIRTDI,
		"IR TDO":    CommandIRTDO,
		"DR-TDI":    CommandDRTDI,
		" DR_TDO ":  CommandDRTDO,
	}
	for in, want := range cases {
		got, err := ParseCommandKind(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseCommandKind("SHIFT")
	require.True(t, errors.Is(err, ErrMalformedEvent))
}
