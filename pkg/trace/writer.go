package trace

import (
	"bufio"
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceRV/pkg/riscv"
)

// Write renders events in the capture file grammar. Sample spans are only
// written when they differ from the even split Parse would infer.
func Write(w io.Writer, events []riscv.RawEvent) error {
	bw := bufio.NewWriter(w)
	for _, ev := range events {
		if ev.Kind == riscv.CommandStateChange {
			fmt.Fprintf(bw, "%-8s %d %d %s\n", ev.Kind, ev.Start, ev.End, ev.State)
			continue
		}
		fmt.Fprintf(bw, "%-8s %d %d 0b%s", ev.Kind, ev.Start, ev.End, ev.Bits)
		if !sameSamples(ev.Samples, EvenSamples(ev.Start, ev.End, len(ev.Bits))) {
			bw.WriteString(" @")
			for _, s := range ev.Samples {
				fmt.Fprintf(bw, " %d:%d", s.Start, s.End)
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func sameSamples(a, b []riscv.SampleRange) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
