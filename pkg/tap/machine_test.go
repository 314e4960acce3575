package tap

import (
	"reflect"
	"testing"
)

func TestResetFromAnyState(t *testing.T) {
	for st := StateTestLogicReset; st.Valid(); st++ {
		m := &StateMachine{state: st}
		seq := m.Reset()
		if len(seq.TMS) != 5 || len(seq.States) != 6 {
			t.Fatalf("Reset from %s: %d tms, %d states", st, len(seq.TMS), len(seq.States))
		}
		if seq.States[0] != st {
			t.Fatalf("States[0] = %s, want %s", seq.States[0], st)
		}
		if m.State() != StateTestLogicReset {
			t.Fatalf("Reset from %s ended in %s", st, m.State())
		}
	}
}

func TestGoToShiftIRFromIdle(t *testing.T) {
	m := NewStateMachine()
	m.Clock(false)

	seq, err := m.GoTo(StateShiftIR)
	if err != nil {
		t.Fatal(err)
	}
	if want := []bool{true, true, false, false}; !reflect.DeepEqual(seq.TMS, want) {
		t.Fatalf("TMS = %v, want %v", seq.TMS, want)
	}
	wantStates := []State{StateRunTestIdle, StateSelectDRScan, StateSelectIRScan, StateCaptureIR, StateShiftIR}
	if !reflect.DeepEqual(seq.States, wantStates) {
		t.Fatalf("States = %v, want %v", seq.States, wantStates)
	}
	if m.State() != StateShiftIR {
		t.Fatalf("State() = %s", m.State())
	}
}

func TestShortestPathAllPairs(t *testing.T) {
	for from := StateTestLogicReset; from.Valid(); from++ {
		for to := StateTestLogicReset; to.Valid(); to++ {
			seq, err := ShortestPath(from, to)
			if err != nil {
				t.Fatalf("%s -> %s: %v", from, to, err)
			}
			if len(seq.States) != len(seq.TMS)+1 {
				t.Fatalf("%s -> %s: %d states for %d clocks", from, to, len(seq.States), len(seq.TMS))
			}
			cur := from
			for i, bit := range seq.TMS {
				cur = NextState(cur, bit)
				if seq.States[i+1] != cur {
					t.Fatalf("%s -> %s: step %d is %s, want %s", from, to, i, seq.States[i+1], cur)
				}
			}
			if cur != to {
				t.Fatalf("%s -> %s: ended in %s", from, to, cur)
			}
		}
	}
}

func TestShortestPathRejectsInvalidStates(t *testing.T) {
	if _, err := ShortestPath(State(99), StateShiftDR); err == nil {
		t.Fatal("expected error for invalid start")
	}
	if _, err := ShortestPath(StateShiftDR, State(99)); err == nil {
		t.Fatal("expected error for invalid target")
	}
}

func TestWalkReportsEnteredStates(t *testing.T) {
	m := NewStateMachine()
	got := m.Walk([]bool{false, true, false, false})
	want := []State{StateRunTestIdle, StateSelectDRScan, StateCaptureDR, StateShiftDR}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Walk = %v, want %v", got, want)
	}
	if m.State() != StateShiftDR {
		t.Fatalf("State() = %s", m.State())
	}
}
