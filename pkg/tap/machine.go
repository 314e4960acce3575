package tap

import "fmt"

// Sequence is a TMS pattern together with the states it passes through.
// States[0] is the starting state, so len(States) == len(TMS)+1.
type Sequence struct {
	TMS    []bool
	States []State
}

// StateMachine mirrors the controller of a target without doing any I/O.
// Callers ask it for TMS patterns and forward them to an adapter.
type StateMachine struct {
	state State
}

// NewStateMachine starts in Test-Logic-Reset, the power-on state.
func NewStateMachine() *StateMachine {
	return &StateMachine{state: StateTestLogicReset}
}

func (m *StateMachine) State() State { return m.state }

// Clock applies one TCK edge.
func (m *StateMachine) Clock(tms bool) State {
	m.state = NextState(m.state, tms)
	return m.state
}

// Walk clocks once per TMS bit and returns every state entered.
func (m *StateMachine) Walk(tms []bool) []State {
	out := make([]State, 0, len(tms))
	for _, bit := range tms {
		out = append(out, m.Clock(bit))
	}
	return out
}

// Reset drives five TMS=1 clocks, which reaches Test-Logic-Reset from
// any state.
func (m *StateMachine) Reset() Sequence {
	tms := []bool{true, true, true, true, true}
	start := m.state
	return Sequence{TMS: tms, States: append([]State{start}, m.Walk(tms)...)}
}

// GoTo moves to target along a shortest path and returns the pattern used.
func (m *StateMachine) GoTo(target State) (Sequence, error) {
	seq, err := ShortestPath(m.state, target)
	if err != nil {
		return Sequence{}, err
	}
	m.Walk(seq.TMS)
	return seq, nil
}

// ShortestPath runs a breadth-first search over the diagram. Every state is
// reachable from every other, so the error only reports invalid inputs.
func ShortestPath(from, to State) (Sequence, error) {
	if !from.Valid() {
		return Sequence{}, fmt.Errorf("tap: invalid start state %d", from)
	}
	if !to.Valid() {
		return Sequence{}, fmt.Errorf("tap: invalid target state %d", to)
	}

	type edge struct {
		prev State
		tms  bool
		seen bool
	}
	var via [numStates]edge
	via[from].seen = true

	queue := []State{from}
	for len(queue) > 0 && !via[to].seen {
		cur := queue[0]
		queue = queue[1:]
		for _, bit := range [2]bool{false, true} {
			nxt := NextState(cur, bit)
			if via[nxt].seen {
				continue
			}
			via[nxt] = edge{prev: cur, tms: bit, seen: true}
			queue = append(queue, nxt)
		}
	}
	if !via[to].seen {
		return Sequence{}, fmt.Errorf("tap: no path from %s to %s", from, to)
	}

	var tms []bool
	states := []State{to}
	for s := to; s != from; s = via[s].prev {
		tms = append(tms, via[s].tms)
		states = append(states, via[s].prev)
	}
	reverseBools(tms)
	reverseStates(states)
	return Sequence{TMS: tms, States: states}, nil
}

func reverseBools(b []bool) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func reverseStates(s []State) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
