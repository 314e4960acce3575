package riscv

import (
	"fmt"
	"strings"
)

// CommandKind is the command tag of a raw front-end record.
type CommandKind uint8

const (
	CommandStateChange CommandKind = iota
	CommandIRTDI
	CommandIRTDO
	CommandDRTDI
	CommandDRTDO
)

var commandNames = map[CommandKind]string{
	CommandStateChange: "STATE",
	CommandIRTDI:       "IR_TDI",
	CommandIRTDO:       "IR_TDO",
	CommandDRTDI:       "DR_TDI",
	CommandDRTDO:       "DR_TDO",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CommandKind(%d)", k)
}

// ParseCommandKind accepts the canonical tags as well as the spaced forms
// ("NEW STATE", "DR TDI") some front ends print.
func ParseCommandKind(s string) (CommandKind, error) {
	norm := strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_").Replace(strings.TrimSpace(s)))
	switch norm {
	case "STATE", "STATE_CHANGE", "NEW_STATE":
		return CommandStateChange, nil
	case "IR_TDI":
		return CommandIRTDI, nil
	case "IR_TDO":
		return CommandIRTDO, nil
	case "DR_TDI":
		return CommandDRTDI, nil
	case "DR_TDO":
		return CommandDRTDO, nil
	}
	return 0, fmt.Errorf("%w: unknown command %q", ErrMalformedEvent, s)
}

// RawEvent is one record as delivered by the TAP front end. For bit
// carrying commands Samples runs parallel to Bits, MSB first.
type RawEvent struct {
	Kind    CommandKind
	Start   int64
	End     int64
	State   string
	Bits    string
	Samples []SampleRange
}

// EventKind is the canonical TAP event variant.
type EventKind uint8

const (
	EventStateChange EventKind = iota
	EventIRLoad
	EventIRCapture
	EventDRShiftIn
	EventDRShiftOut
)

var eventNames = map[EventKind]string{
	EventStateChange: "StateChange",
	EventIRLoad:      "IrLoad",
	EventIRCapture:   "IrCapture",
	EventDRShiftIn:   "DrShiftIn",
	EventDRShiftOut:  "DrShiftOut",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// Event is a classified TAP event.
type Event struct {
	Kind    EventKind
	Start   int64
	End     int64
	State   string  // StateChange only
	Capture Capture // everything else
}

var eventKinds = map[CommandKind]EventKind{
	CommandStateChange: EventStateChange,
	CommandIRTDI:       EventIRLoad,
	CommandIRTDO:       EventIRCapture,
	CommandDRTDI:       EventDRShiftIn,
	CommandDRTDO:       EventDRShiftOut,
}

// Classify turns a raw record into a canonical Event. The per-bit samples
// are reversed once so that Capture.Samples[0] belongs to the first shifted
// bit. The caller's slice is left untouched.
func Classify(raw RawEvent) (Event, error) {
	kind, ok := eventKinds[raw.Kind]
	if !ok {
		return Event{}, fmt.Errorf("%w: unknown command %d", ErrMalformedEvent, raw.Kind)
	}
	if raw.End <= raw.Start {
		return Event{}, fmt.Errorf("%w: %s covers empty range [%d, %d)", ErrMalformedEvent, raw.Kind, raw.Start, raw.End)
	}

	ev := Event{Kind: kind, Start: raw.Start, End: raw.End}
	if kind == EventStateChange {
		if raw.State == "" {
			return Event{}, fmt.Errorf("%w: state change without a state name", ErrMalformedEvent)
		}
		ev.State = raw.State
		return ev, nil
	}

	if raw.Bits == "" {
		return Event{}, fmt.Errorf("%w: %s without bits", ErrMalformedEvent, raw.Kind)
	}
	if strings.Trim(raw.Bits, "01") != "" {
		return Event{}, fmt.Errorf("%w: %s bits %q are not binary", ErrMalformedEvent, raw.Kind, raw.Bits)
	}
	if len(raw.Samples) != len(raw.Bits) {
		return Event{}, fmt.Errorf("%w: %s has %d bits but %d sample ranges", ErrMalformedEvent, raw.Kind, len(raw.Bits), len(raw.Samples))
	}

	samples := make([]SampleRange, len(raw.Samples))
	for i, s := range raw.Samples {
		samples[len(samples)-1-i] = s
	}
	// Field spans run from the first bit's start to the last bit's end, so
	// every bit needs a non-empty window and the windows must follow shift
	// order.
	for i, s := range samples {
		if s.End <= s.Start {
			return Event{}, fmt.Errorf("%w: %s bit %d has empty samples [%d, %d)", ErrMalformedEvent, raw.Kind, i, s.Start, s.End)
		}
		if i > 0 && s.Start < samples[i-1].Start {
			return Event{}, fmt.Errorf("%w: %s bit %d starts at %d, before bit %d", ErrMalformedEvent, raw.Kind, i, s.Start, i-1)
		}
	}
	ev.Capture = Capture{Bits: raw.Bits, Samples: samples}
	return ev, nil
}
