package riscv

import "fmt"

// State is the logical decoder state: which register decoder governs the
// next Data Register events.
type State uint8

const (
	StateIdle State = iota
	StateReset
	StateBypass
	StateIdcode
	StateAbort
	StateUnknown
	StateDtmcs
	StateDmi
	StateDpacc
	StateApacc

	// stateNone is never entered; the emitter starts from it so the first
	// real state is always reported.
	stateNone State = 0xff
)

var stateNames = map[State]string{
	StateIdle:    "IDLE",
	StateReset:   "RESET",
	StateBypass:  "BYPASS",
	StateIdcode:  "IDCODE",
	StateAbort:   "ABORT",
	StateUnknown: "UNKNOWN",
	StateDtmcs:   "DTMCS",
	StateDmi:     "DMI",
	StateDpacc:   "DPACC",
	StateApacc:   "APACC",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", s)
}

// Continuous reports whether the register stays selected across Data
// Register events until the next IR load.
func (s State) Continuous() bool {
	return s == StateDtmcs || s == StateDmi
}
