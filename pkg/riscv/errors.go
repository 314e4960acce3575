package riscv

import "errors"

var (
	// ErrMalformedField is returned when a requested bit slice is empty or
	// contains something other than '0' and '1'.
	ErrMalformedField = errors.New("riscv: malformed field")

	// ErrOutOfRange is returned when a slice reaches past the captured bits.
	ErrOutOfRange = errors.New("riscv: bit range out of range")

	// ErrInvalidRange is returned by the emitter for an empty or inverted
	// sample range. It always indicates a decoder defect.
	ErrInvalidRange = errors.New("riscv: invalid annotation range")

	// ErrMalformedEvent is returned by Classify for raw front-end records
	// that violate the bit capture invariants.
	ErrMalformedEvent = errors.New("riscv: malformed event")
)
