package riscv

import (
	"fmt"
	"strings"
)

// Channel is the annotation class. The order is fixed.
type Channel uint8

const (
	ChannelItem Channel = iota
	ChannelField
	ChannelCommand
	ChannelWarning
	ChannelState
	ChannelDiagnostic
)

var channelNames = [...]string{"item", "field", "command", "warning", "state", "diagnostic"}

func (c Channel) String() string {
	if int(c) < len(channelNames) {
		return channelNames[c]
	}
	return fmt.Sprintf("Channel(%d)", c)
}

func (c Channel) MarshalText() ([]byte, error) {
	if int(c) >= len(channelNames) {
		return nil, fmt.Errorf("riscv: channel %d out of range", c)
	}
	return []byte(channelNames[c]), nil
}

func (c *Channel) UnmarshalText(text []byte) error {
	ch, err := ParseChannel(string(text))
	if err != nil {
		return err
	}
	*c = ch
	return nil
}

// ParseChannel accepts a channel name or its index.
func ParseChannel(s string) (Channel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range channelNames {
		if s == name || s == fmt.Sprint(i) {
			return Channel(i), nil
		}
	}
	if s == "debug" {
		return ChannelDiagnostic, nil
	}
	return 0, fmt.Errorf("riscv: unknown channel %q", s)
}

// Annotation is one emitted record. Text holds renderings of decreasing
// verbosity; Text[0] is the full form.
type Annotation struct {
	Start   int64    `json:"start"`
	End     int64    `json:"end"`
	Channel Channel  `json:"channel"`
	Text    []string `json:"text"`
}

// Sink consumes annotations.
type Sink interface {
	Annotate(a Annotation)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Annotation)

func (f SinkFunc) Annotate(a Annotation) { f(a) }

// Collector is a Sink that keeps everything it receives.
type Collector struct {
	Annotations []Annotation
}

func (c *Collector) Annotate(a Annotation) {
	c.Annotations = append(c.Annotations, a)
}

// ByChannel returns the collected annotations of one channel.
func (c *Collector) ByChannel(ch Channel) []Annotation {
	var out []Annotation
	for _, a := range c.Annotations {
		if a.Channel == ch {
			out = append(out, a)
		}
	}
	return out
}

// Emitter stamps annotations with their sample range and hands them to a
// Sink. It remembers the last reported decoder state so that each state is
// reported once per run.
type Emitter struct {
	sink      Sink
	lastState State
}

// NewEmitter creates an emitter writing to sink.
func NewEmitter(sink Sink) *Emitter {
	return &Emitter{sink: sink, lastState: stateNone}
}

// Emit sends one annotation. Zero-length or inverted ranges are rejected.
func (e *Emitter) Emit(start, end int64, ch Channel, text ...string) error {
	if end <= start {
		return fmt.Errorf("%w: [%d, %d) on %s", ErrInvalidRange, start, end, ch)
	}
	if int(ch) >= len(channelNames) {
		return fmt.Errorf("riscv: channel %d out of range", ch)
	}
	e.sink.Annotate(Annotation{Start: start, End: end, Channel: ch, Text: text})
	return nil
}

// EmitState reports state unless it was the last state reported. It
// returns whether an annotation was produced.
func (e *Emitter) EmitState(start, end int64, state State) (bool, error) {
	if state == e.lastState {
		return false, nil
	}
	if err := e.Emit(start, end, ChannelState, "State = "+state.String(), state.String()); err != nil {
		return false, err
	}
	e.lastState = state
	return true, nil
}

func (e *Emitter) EmitItem(start, end int64, text ...string) error {
	return e.Emit(start, end, ChannelItem, text...)
}

func (e *Emitter) EmitField(start, end int64, text ...string) error {
	return e.Emit(start, end, ChannelField, text...)
}

func (e *Emitter) EmitCommand(start, end int64, text ...string) error {
	return e.Emit(start, end, ChannelCommand, text...)
}

func (e *Emitter) EmitWarning(start, end int64, text ...string) error {
	return e.Emit(start, end, ChannelWarning, text...)
}

func (e *Emitter) EmitDiagnostic(start, end int64, text ...string) error {
	return e.Emit(start, end, ChannelDiagnostic, text...)
}

// Reset forgets the last reported state.
func (e *Emitter) Reset() {
	e.lastState = stateNone
}

// channelFilter drops annotations of channels not enabled.
type channelFilter struct {
	next    Sink
	enabled [len(channelNames)]bool
}

func newChannelFilter(next Sink, channels []Channel) Sink {
	if len(channels) == 0 {
		return next
	}
	f := &channelFilter{next: next}
	for _, ch := range channels {
		if int(ch) < len(f.enabled) {
			f.enabled[ch] = true
		}
	}
	return f
}

func (f *channelFilter) Annotate(a Annotation) {
	if f.enabled[a.Channel] {
		f.next.Annotate(a)
	}
}
