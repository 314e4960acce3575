package riscv

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/OpenTraceLab/OpenTraceRV/pkg/tap"
)

// handler binds a decoder state to its register decoder. in/out tell which
// shift directions it consumes; doneIn/doneOut tell which of them complete a
// one-shot transaction and return the tracker to Idle.
type handler struct {
	decode  decodeFunc
	in, out bool
	doneIn  bool
	doneOut bool
}

var handlers = map[State]handler{
	StateIdle:    {},
	StateReset:   {decode: decodeIDCODE, out: true, doneOut: true},
	StateBypass:  {decode: decodeBypass, in: true, doneIn: true},
	StateIdcode:  {decode: decodeIDCODE, out: true, doneOut: true},
	StateAbort:   {decode: decodeAbort, in: true, doneIn: true},
	StateUnknown: {decode: decodeUnknown, in: true, doneIn: true},
	StateDtmcs:   {decode: decodeDtmcs, in: true, out: true},
	StateDmi:     {decode: decodeDmi, in: true, out: true},
	StateDpacc:   {decode: decodeAccess("DPACC"), in: true, out: true, doneOut: true},
	StateApacc:   {decode: decodeAccess("APACC"), in: true, out: true, doneOut: true},
}

// Decoder is the protocol state tracker. It owns the logical decoder state
// and the last loaded instruction, routes Data Register events to register
// decoders and emits the results. A Decoder is not safe for concurrent use.
type Decoder struct {
	cfg     *Config
	log     log.Logger
	emit    *Emitter
	catalog *Catalog

	state      State
	pending    State
	hasPending bool
	ir         Instruction
	idcodes    []uint32
}

// NewDecoder creates a decoder writing annotations to sink. A nil cfg uses
// DefaultConfig and a nil logger uses the root logger.
func NewDecoder(cfg *Config, sink Sink, logger log.Logger) (*Decoder, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Root()
	}
	return &Decoder{
		cfg:     cfg,
		log:     logger,
		emit:    NewEmitter(newChannelFilter(sink, cfg.Channels)),
		catalog: cfg.InstructionCatalog(),
		state:   StateIdle,
		ir:      UnknownInstruction,
	}, nil
}

// State returns the active logical decoder state.
func (d *Decoder) State() State {
	return d.state
}

// Instruction returns the most recently loaded instruction.
func (d *Decoder) Instruction() Instruction {
	return d.ir
}

// IDCodes returns every IDCODE value decoded so far.
func (d *Decoder) IDCodes() []uint32 {
	return append([]uint32(nil), d.idcodes...)
}

// Reset returns the decoder to its initial state.
func (d *Decoder) Reset() {
	d.state = StateIdle
	d.hasPending = false
	d.ir = UnknownInstruction
	d.idcodes = nil
	d.emit.Reset()
}

// Decode classifies and processes one raw front-end record. Only malformed
// records produce an error; the decoder stays usable afterwards.
func (d *Decoder) Decode(raw RawEvent) error {
	ev, err := Classify(raw)
	if err != nil {
		d.log.Warn("Dropping malformed event", "kind", raw.Kind, "start", raw.Start, "err", err)
		return err
	}
	d.Process(ev)
	return nil
}

// DecodeAll feeds every record to Decode and returns the joined errors of
// the records that had to be dropped.
func (d *Decoder) DecodeAll(events []RawEvent) error {
	var errs []error
	for _, raw := range events {
		if err := d.Decode(raw); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Process advances the state machine with one classified event.
func (d *Decoder) Process(ev Event) {
	isDR := ev.Kind == EventDRShiftIn || ev.Kind == EventDRShiftOut
	if isDR && d.hasPending {
		d.state = d.pending
		d.hasPending = false
	}

	if _, err := d.emit.EmitState(ev.Start, ev.End, d.state); err != nil {
		d.check(err)
	}

	switch ev.Kind {
	case EventStateChange:
		d.stateChange(ev)
	case EventIRLoad:
		d.irLoad(ev)
	case EventIRCapture:
		d.log.Trace("Ignoring IR capture", "bits", ev.Capture.Bits)
	case EventDRShiftIn:
		d.dataRegister(ev, DirIn)
	case EventDRShiftOut:
		d.dataRegister(ev, DirOut)
	}
}

func (d *Decoder) stateChange(ev Event) {
	st, err := tap.ParseState(ev.State)
	if err != nil {
		d.log.Debug("Unrecognised TAP state", "name", ev.State)
		return
	}
	if st == tap.StateTestLogicReset {
		d.state = StateReset
		d.hasPending = false
	}
}

func (d *Decoder) irLoad(ev Event) {
	ins := d.catalog.Lookup(ev.Capture.Bits)
	d.ir = ins
	d.log.Debug("Instruction loaded", "ir", ev.Capture.Bits, "register", ins.Name)

	if ins.Register.Continuous() {
		d.state = ins.Register
		d.hasPending = false
	} else {
		d.pending = ins.Register
		d.hasPending = true
	}

	text := "IR = " + ins.Name
	if ins.Pattern != "" {
		if v, err := ToUnsigned(ins.Pattern); err == nil {
			text = fmt.Sprintf("IR = %s (0x%x)", ins.Name, v)
		}
	}
	d.check(d.emit.EmitDiagnostic(ev.Start, ev.End, text, ins.Name))
}

func (d *Decoder) dataRegister(ev Event, dir Direction) {
	h, ok := handlers[d.state]
	if !ok {
		d.check(d.emit.EmitDiagnostic(ev.Start, ev.End, "Unhandled state: "+d.state.String()))
		return
	}
	if (dir == DirIn && !h.in) || (dir == DirOut && !h.out) {
		return
	}

	res, err := h.decode(dir, ev.Capture)
	if err != nil {
		d.degrade(ev, err)
	} else {
		d.annotate(ev, res)
	}

	if (dir == DirIn && h.doneIn) || (dir == DirOut && h.doneOut) {
		d.state = StateIdle
	}
}

func (d *Decoder) annotate(ev Event, res Decoded) {
	if res.hasIDCode {
		d.idcodes = append(d.idcodes, res.idcode)
	}
	for _, f := range res.Fields {
		d.field(ev, f)
	}
	if len(res.Summary) > 0 {
		d.check(d.emit.Emit(ev.Start, ev.End, res.Channel, res.Summary...))
	}
	for _, w := range res.Warnings {
		d.field(ev, w)
	}
}

func (d *Decoder) field(ev Event, f Field) {
	span, err := ev.Capture.Span(f.Lo, f.Hi)
	if err != nil {
		d.check(fmt.Errorf("%w: field %q: %v", ErrInvalidRange, f.Text[0], err))
		return
	}
	d.check(d.emit.Emit(span.Start, span.End, f.Channel, f.Text...))
}

// degrade replaces a failed decode with a diagnostic and an UNKNOWN style
// command annotation.
func (d *Decoder) degrade(ev Event, err error) {
	d.log.Debug("Register decode failed", "state", d.state, "bits", ev.Capture.Len(), "err", err)
	d.check(d.emit.EmitDiagnostic(ev.Start, ev.End,
		fmt.Sprintf("%s: undecodable capture (%d bits): %v", d.state, ev.Capture.Len(), err)))
	d.check(d.emit.EmitCommand(ev.Start, ev.End, "Unknown instruction: "+ev.Capture.Bits, "Unknown"))
}

// check handles emitter failures, which are decoder defects rather than bad
// input.
func (d *Decoder) check(err error) {
	if err == nil {
		return
	}
	if d.cfg.Strict {
		panic(err)
	}
	d.log.Warn("Dropping annotation", "err", err)
}
