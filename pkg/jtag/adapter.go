package jtag

import (
	"errors"
	"fmt"
)

// AdapterInfo is what a probe reports about itself. Backends fill in the
// fields they know and leave the rest empty.
type AdapterInfo struct {
	Name         string
	Vendor       string
	Model        string
	Serial       string
	Firmware     string
	MaxFrequency int // Hz
	SupportsTRST bool
	Notes        string
}

// Adapter drives raw scans on one TAP. The tms, tdi and tdo buffers are
// packed LSB first: bit i of a shift sits in byte i/8 at position i%8.
type Adapter interface {
	Info() (AdapterInfo, error)
	ShiftIR(tms, tdi []byte, bits int) (tdo []byte, err error)
	ShiftDR(tms, tdi []byte, bits int) (tdo []byte, err error)
	ResetTAP(hard bool) error
	SetSpeed(hz int) error
}

var ErrNotImplemented = errors.New("jtag: not implemented")

// ValidateShiftBuffers checks that non-empty tms and tdi buffers hold at
// least bits bits and returns the packed byte length.
func ValidateShiftBuffers(tms, tdi []byte, bits int) (int, error) {
	if bits <= 0 {
		return 0, fmt.Errorf("jtag: bits must be positive, got %d", bits)
	}
	n := (bits + 7) / 8
	for _, buf := range []struct {
		name string
		b    []byte
	}{{"tms", tms}, {"tdi", tdi}} {
		if len(buf.b) > 0 && len(buf.b) < n {
			return 0, fmt.Errorf("jtag: %s buffer holds %d bytes, %d bits need %d", buf.name, len(buf.b), bits, n)
		}
	}
	return n, nil
}
