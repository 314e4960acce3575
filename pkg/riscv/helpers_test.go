package riscv

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// clock is the sample width of one bit in test captures.
const clock = 10

// bin renders the low n bits of v MSB first.
func bin(v uint64, n int) string {
	return fmt.Sprintf("%0*b", n, v)
}

// shifted builds a bit-carrying record whose bit i (LSB = 0) was shifted in
// samples [start+i*clock, start+(i+1)*clock).
func shifted(kind CommandKind, bits string, start int64) RawEvent {
	n := len(bits)
	samples := make([]SampleRange, n)
	for i := 0; i < n; i++ {
		samples[n-1-i] = SampleRange{Start: start + int64(i)*clock, End: start + int64(i+1)*clock}
	}
	return RawEvent{Kind: kind, Start: start, End: start + int64(n)*clock, Bits: bits, Samples: samples}
}

func stateChange(name string, start int64) RawEvent {
	return RawEvent{Kind: CommandStateChange, Start: start, End: start + clock, State: name}
}

func newTestDecoder(t *testing.T, catalog string) (*Decoder, *Collector) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Catalog = catalog
	cfg.Strict = true
	col := &Collector{}
	d, err := NewDecoder(cfg, col, nil)
	require.NoError(t, err)
	return d, col
}

func feed(t *testing.T, d *Decoder, events ...RawEvent) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, d.Decode(ev))
	}
}

func texts(anns []Annotation) []string {
	out := make([]string, len(anns))
	for i, a := range anns {
		out[i] = a.Text[0]
	}
	return out
}
