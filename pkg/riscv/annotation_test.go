package riscv

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmitRejectsEmptyRanges(t *testing.T) {
	col := &Collector{}
	e := NewEmitter(col)

	require.NoError(t, e.EmitCommand(10, 20, "ok"))
	require.True(t, errors.Is(e.EmitCommand(20, 20, "empty"), ErrInvalidRange))
	require.True(t, errors.Is(e.EmitField(30, 20, "inverted"), ErrInvalidRange))
	require.Error(t, e.Emit(0, 1, Channel(17), "bad channel"))

	require.Len(t, col.Annotations, 1)
	require.Equal(t, Annotation{Start: 10, End: 20, Channel: ChannelCommand, Text: []string{"ok"}}, col.Annotations[0])
}

func TestEmitStateOncePerRun(t *testing.T) {
	col := &Collector{}
	e := NewEmitter(col)

	for i := int64(0); i < 3; i++ {
		_, err := e.EmitState(i*10, i*10+10, StateIdle)
		require.NoError(t, err)
	}
	emitted, err := e.EmitState(40, 50, StateDmi)
	require.NoError(t, err)
	require.True(t, emitted)
	emitted, err = e.EmitState(50, 60, StateDmi)
	require.NoError(t, err)
	require.False(t, emitted)

	require.Equal(t, []string{"State = IDLE", "State = DMI"}, texts(col.ByChannel(ChannelState)))

	e.Reset()
	emitted, err = e.EmitState(60, 70, StateDmi)
	require.NoError(t, err)
	require.True(t, emitted)
}

func TestFailedStateEmissionIsRetried(t *testing.T) {
	col := &Collector{}
	e := NewEmitter(col)

	_, err := e.EmitState(5, 5, StateIdle)
	require.True(t, errors.Is(err, ErrInvalidRange))

	emitted, err := e.EmitState(5, 6, StateIdle)
	require.NoError(t, err)
	require.True(t, emitted)
}

func TestParseChannel(t *testing.T) {
	for i, name := range []string{"item", "field", "command", "warning", "state", "diagnostic"} {
		ch, err := ParseChannel(name)
		require.NoError(t, err)
		require.Equal(t, Channel(i), ch)
		require.Equal(t, name, ch.String())
	}
	ch, err := ParseChannel("2")
	require.NoError(t, err)
	require.Equal(t, ChannelCommand, ch)

	ch, err = ParseChannel("Debug")
	require.NoError(t, err)
	require.Equal(t, ChannelDiagnostic, ch)

	_, err = ParseChannel("verbose")
	require.Error(t, err)
}

func TestChannelFilter(t *testing.T) {
	col := &Collector{}
	sink := newChannelFilter(col, []Channel{ChannelCommand, ChannelWarning})
	e := NewEmitter(sink)

	require.NoError(t, e.EmitItem(0, 1, "item"))
	require.NoError(t, e.EmitCommand(0, 1, "command"))
	require.NoError(t, e.EmitWarning(0, 1, "warning"))
	require.NoError(t, e.EmitDiagnostic(0, 1, "diagnostic"))

	require.Equal(t, []string{"command", "warning"}, texts(col.Annotations))

	require.Same(t, col, newChannelFilter(col, nil))
}

func TestSinkFunc(t *testing.T) {
	var got []Annotation
	e := NewEmitter(SinkFunc(func(a Annotation) { got = append(got, a) }))
	require.NoError(t, e.EmitItem(1, 2, "x"))
	require.Len(t, got, 1)
}

func TestAnnotationJSON(t *testing.T) {
	a := Annotation{Start: 1, End: 2, Channel: ChannelWarning, Text: []string{"w"}}
	buf, err := json.Marshal(a)
	require.NoError(t, err)
	require.JSONEq(t, `{"start":1,"end":2,"channel":"warning","text":["w"]}`, string(buf))

	var back Annotation
	require.NoError(t, json.Unmarshal(buf, &back))
	require.Equal(t, a, back)
}
