package trace

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/OpenTraceRV/pkg/riscv"
)

// Parser reads capture files into front-end records.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a new capture file parser
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(TraceLexer),
		participle.Elide("Comment", "Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a capture from a reader
func (p *Parser) Parse(r io.Reader) ([]riscv.RawEvent, error) {
	file, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return convert(file)
}

// ParseString parses a capture from a string
func (p *Parser) ParseString(input string) ([]riscv.RawEvent, error) {
	file, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return convert(file)
}

// ParseFile parses a capture from a file path
func (p *Parser) ParseFile(filename string) ([]riscv.RawEvent, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

func convert(file *File) ([]riscv.RawEvent, error) {
	events := make([]riscv.RawEvent, 0, len(file.Records))
	for _, rec := range file.Records {
		ev, err := rec.Event()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rec.Pos, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Event converts the record into a front-end event.
func (r *Record) Event() (riscv.RawEvent, error) {
	kind, err := riscv.ParseCommandKind(r.Command)
	if err != nil {
		return riscv.RawEvent{}, err
	}
	if r.End <= r.Start {
		return riscv.RawEvent{}, fmt.Errorf("empty sample range [%d, %d)", r.Start, r.End)
	}

	ev := riscv.RawEvent{Kind: kind, Start: r.Start, End: r.End}
	if kind == riscv.CommandStateChange {
		if r.State == "" {
			return riscv.RawEvent{}, fmt.Errorf("%s needs a state name", r.Command)
		}
		ev.State = r.State
		return ev, nil
	}
	if r.Bits == "" {
		return riscv.RawEvent{}, fmt.Errorf("%s needs a 0b bit string", r.Command)
	}

	ev.Bits = strings.TrimPrefix(r.Bits, "0b")
	if len(r.Spans) == 0 {
		if r.End-r.Start < int64(len(ev.Bits)) {
			return riscv.RawEvent{}, fmt.Errorf("%d bits do not fit in %d samples; list spans with @", len(ev.Bits), r.End-r.Start)
		}
		ev.Samples = EvenSamples(r.Start, r.End, len(ev.Bits))
		return ev, nil
	}
	if len(r.Spans) != len(ev.Bits) {
		return riscv.RawEvent{}, fmt.Errorf("%d bits but %d sample spans", len(ev.Bits), len(r.Spans))
	}
	ev.Samples = make([]riscv.SampleRange, len(r.Spans))
	for i, span := range r.Spans {
		s, err := parseSpan(span)
		if err != nil {
			return riscv.RawEvent{}, err
		}
		ev.Samples[i] = s
	}
	return ev, nil
}

func parseSpan(span string) (riscv.SampleRange, error) {
	lo, hi, ok := strings.Cut(span, ":")
	if !ok {
		return riscv.SampleRange{}, fmt.Errorf("invalid span %q", span)
	}
	start, err := strconv.ParseInt(lo, 10, 64)
	if err != nil {
		return riscv.SampleRange{}, fmt.Errorf("invalid span %q: %w", span, err)
	}
	end, err := strconv.ParseInt(hi, 10, 64)
	if err != nil {
		return riscv.SampleRange{}, fmt.Errorf("invalid span %q: %w", span, err)
	}
	if end <= start {
		return riscv.SampleRange{}, fmt.Errorf("empty span %q", span)
	}
	return riscv.SampleRange{Start: start, End: end}, nil
}

// EvenSamples splits [start, end) into n consecutive bit periods and returns
// them parallel to an MSB-first bit string: the last entry is the earliest
// period, since the least significant bit is shifted first. Periods are only
// non-empty when end-start >= n.
func EvenSamples(start, end int64, n int) []riscv.SampleRange {
	if n <= 0 {
		return nil
	}
	out := make([]riscv.SampleRange, n)
	width := end - start
	for i := 0; i < n; i++ {
		out[n-1-i] = riscv.SampleRange{
			Start: start + width*int64(i)/int64(n),
			End:   start + width*int64(i+1)/int64(n),
		}
	}
	return out
}
