package tap

import "testing"

func TestDiagramEdges(t *testing.T) {
	cases := []struct {
		from State
		tms  bool
		to   State
	}{
		{StateTestLogicReset, false, StateRunTestIdle},
		{StateTestLogicReset, true, StateTestLogicReset},
		{StateRunTestIdle, false, StateRunTestIdle},
		{StateRunTestIdle, true, StateSelectDRScan},
		{StateSelectDRScan, true, StateSelectIRScan},
		{StateCaptureDR, true, StateExit1DR},
		{StateExit1DR, false, StatePauseDR},
		{StateExit2DR, false, StateShiftDR},
		{StateUpdateDR, true, StateSelectDRScan},
		{StateSelectIRScan, true, StateTestLogicReset},
		{StateShiftIR, false, StateShiftIR},
		{StateExit1IR, true, StateUpdateIR},
		{StatePauseIR, true, StateExit2IR},
		{StateUpdateIR, false, StateRunTestIdle},
	}
	for _, tc := range cases {
		if got := NextState(tc.from, tc.tms); got != tc.to {
			t.Errorf("NextState(%s, %v) = %s, want %s", tc.from, tc.tms, got, tc.to)
		}
	}
}

func TestNextStatePanicsOutsideDiagram(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for State(16)")
		}
	}()
	NextState(State(16), true)
}

func TestParseStateSpellings(t *testing.T) {
	cases := map[string]State{
		"TEST-LOGIC-RESET": StateTestLogicReset,
		"test_logic_reset": StateTestLogicReset,
		"Run-Test/Idle":    StateRunTestIdle,
		"RUN_TEST_IDLE":    StateRunTestIdle,
		"EXIT1-DR":         StateExit1DR,
		"shiftir":          StateShiftIR,
		"UpdateIR":         StateUpdateIR,
	}
	for name, want := range cases {
		got, err := ParseState(name)
		if err != nil {
			t.Fatalf("ParseState(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("ParseState(%q) = %s, want %s", name, got, want)
		}
	}
	if _, err := ParseState("SHIFT-XR"); err == nil {
		t.Fatal("expected error for SHIFT-XR")
	}
}

func TestNamesRoundTrip(t *testing.T) {
	for st := StateTestLogicReset; st.Valid(); st++ {
		for _, name := range []string{st.String(), st.IEEEName()} {
			got, err := ParseState(name)
			if err != nil || got != st {
				t.Fatalf("ParseState(%q) = %s, %v; want %s", name, got, err, st)
			}
		}
	}
	if got := State(20).String(); got != "State(20)" {
		t.Fatalf("String() = %q", got)
	}
}
