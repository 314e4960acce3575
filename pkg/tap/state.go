package tap

import (
	"fmt"
	"strings"
)

// State is one of the sixteen TAP controller states of IEEE 1149.1.
type State uint8

const (
	StateTestLogicReset State = iota
	StateRunTestIdle
	StateSelectDRScan
	StateCaptureDR
	StateShiftDR
	StateExit1DR
	StatePauseDR
	StateExit2DR
	StateUpdateDR
	StateSelectIRScan
	StateCaptureIR
	StateShiftIR
	StateExit1IR
	StatePauseIR
	StateExit2IR
	StateUpdateIR

	numStates
)

// stateInfo is one row of the controller diagram: both spellings of the
// state plus where TMS=0 and TMS=1 lead.
type stateInfo struct {
	name string
	ieee string
	next [2]State
}

var diagram = [numStates]stateInfo{
	StateTestLogicReset: {"TestLogicReset", "TEST-LOGIC-RESET", [2]State{StateRunTestIdle, StateTestLogicReset}},
	StateRunTestIdle:    {"RunTestIdle", "RUN-TEST/IDLE", [2]State{StateRunTestIdle, StateSelectDRScan}},
	StateSelectDRScan:   {"SelectDRScan", "SELECT-DR-SCAN", [2]State{StateCaptureDR, StateSelectIRScan}},
	StateCaptureDR:      {"CaptureDR", "CAPTURE-DR", [2]State{StateShiftDR, StateExit1DR}},
	StateShiftDR:        {"ShiftDR", "SHIFT-DR", [2]State{StateShiftDR, StateExit1DR}},
	StateExit1DR:        {"Exit1DR", "EXIT1-DR", [2]State{StatePauseDR, StateUpdateDR}},
	StatePauseDR:        {"PauseDR", "PAUSE-DR", [2]State{StatePauseDR, StateExit2DR}},
	StateExit2DR:        {"Exit2DR", "EXIT2-DR", [2]State{StateShiftDR, StateUpdateDR}},
	StateUpdateDR:       {"UpdateDR", "UPDATE-DR", [2]State{StateRunTestIdle, StateSelectDRScan}},
	StateSelectIRScan:   {"SelectIRScan", "SELECT-IR-SCAN", [2]State{StateCaptureIR, StateTestLogicReset}},
	StateCaptureIR:      {"CaptureIR", "CAPTURE-IR", [2]State{StateShiftIR, StateExit1IR}},
	StateShiftIR:        {"ShiftIR", "SHIFT-IR", [2]State{StateShiftIR, StateExit1IR}},
	StateExit1IR:        {"Exit1IR", "EXIT1-IR", [2]State{StatePauseIR, StateUpdateIR}},
	StatePauseIR:        {"PauseIR", "PAUSE-IR", [2]State{StatePauseIR, StateExit2IR}},
	StateExit2IR:        {"Exit2IR", "EXIT2-IR", [2]State{StateShiftIR, StateUpdateIR}},
	StateUpdateIR:       {"UpdateIR", "UPDATE-IR", [2]State{StateRunTestIdle, StateSelectDRScan}},
}

var byKey = func() map[string]State {
	m := make(map[string]State, 2*numStates)
	for st, info := range diagram {
		m[foldName(info.name)] = State(st)
		m[foldName(info.ieee)] = State(st)
	}
	return m
}()

// foldName upper-cases and keeps only letters and digits, so that
// "Run-Test/Idle", "RUN_TEST_IDLE" and "RunTestIdle" share one key.
func foldName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, name)
}

// Valid reports whether s names one of the sixteen controller states.
func (s State) Valid() bool { return s < numStates }

func (s State) String() string {
	if !s.Valid() {
		return fmt.Sprintf("State(%d)", s)
	}
	return diagram[s].name
}

// IEEEName returns the upper-case spelling used by the standard and by most
// capture front ends, such as RUN-TEST/IDLE.
func (s State) IEEEName() string {
	if !s.Valid() {
		return s.String()
	}
	return diagram[s].ieee
}

// ParseState accepts either spelling of a state name, ignoring case and
// punctuation.
func ParseState(name string) (State, error) {
	if st, ok := byKey[foldName(name)]; ok {
		return st, nil
	}
	return 0, fmt.Errorf("tap: unknown state %q", name)
}

// NextState is the state entered after one TCK edge with the given TMS.
// It panics on a state outside the diagram.
func NextState(s State, tms bool) State {
	if !s.Valid() {
		panic(fmt.Sprintf("tap: unhandled state %d", s))
	}
	if tms {
		return diagram[s].next[1]
	}
	return diagram[s].next[0]
}
