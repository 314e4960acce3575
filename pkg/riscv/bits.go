package riscv

import (
	"fmt"
	"strings"
)

// SampleRange is the [Start, End) sample window a single bit was captured in.
type SampleRange struct {
	Start int64
	End   int64
}

// Slice returns bits[start:end] where index 0 is the most significant
// (logically first) bit and negative indices count back from the least
// significant end, so -1 is the last bit. end is exclusive. An empty
// result is allowed; an inverted one is not.
func Slice(bits string, start, end int) (string, error) {
	n := len(bits)
	s, e := start, end
	if s < 0 {
		s += n
	}
	if e < 0 {
		e += n
	}
	if s < 0 || e > n {
		return "", fmt.Errorf("%w: [%d:%d) of %d bits", ErrOutOfRange, start, end, n)
	}
	if s > e {
		return "", fmt.Errorf("%w: inverted slice [%d:%d)", ErrMalformedField, start, end)
	}
	return bits[s:e], nil
}

// ToUnsigned interprets a slice as big-endian unsigned binary.
func ToUnsigned(bits string) (uint64, error) {
	if len(bits) == 0 {
		return 0, fmt.Errorf("%w: empty slice", ErrMalformedField)
	}
	if len(bits) > 64 {
		return 0, fmt.Errorf("%w: %d bits do not fit in 64", ErrMalformedField, len(bits))
	}
	var v uint64
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '0':
			v <<= 1
		case '1':
			v = v<<1 | 1
		default:
			return 0, fmt.Errorf("%w: invalid bit %q", ErrMalformedField, bits[i])
		}
	}
	return v, nil
}

// IsAllZero reports whether every bit in the slice is '0'.
func IsAllZero(bits string) bool {
	return strings.Trim(bits, "0") == ""
}

// MatchesPattern compares bits against an IR pattern of the same length.
// An 'x' in the pattern matches either bit value.
func MatchesPattern(bits, pattern string) bool {
	if len(bits) != len(pattern) {
		return false
	}
	for i := 0; i < len(bits); i++ {
		if pattern[i] != 'x' && pattern[i] != bits[i] {
			return false
		}
	}
	return true
}

// Capture is a bit string shifted through IR or DR together with the sample
// range of every bit.
//
// Bits holds the logical value MSB first. Samples is indexed by register bit
// number: Samples[0] is the least significant bit, which is also the first
// one shifted on the wire.
type Capture struct {
	Bits    string
	Samples []SampleRange
}

// Len returns the number of captured bits.
func (c Capture) Len() int {
	return len(c.Bits)
}

// Field returns register bits [lo, hi), numbered from the LSB, as an
// MSB-first string.
func (c Capture) Field(lo, hi int) (string, error) {
	n := len(c.Bits)
	if lo < 0 || hi > n {
		return "", fmt.Errorf("%w: bits [%d:%d) of %d-bit capture", ErrOutOfRange, lo, hi, n)
	}
	if lo >= hi {
		return "", fmt.Errorf("%w: empty field [%d:%d)", ErrMalformedField, lo, hi)
	}
	return Slice(c.Bits, n-hi, n-lo)
}

// Uint returns register bits [lo, hi) as an unsigned integer.
func (c Capture) Uint(lo, hi int) (uint64, error) {
	bits, err := c.Field(lo, hi)
	if err != nil {
		return 0, err
	}
	return ToUnsigned(bits)
}

// Span returns the sample window covering register bits [lo, hi).
func (c Capture) Span(lo, hi int) (SampleRange, error) {
	if lo < 0 || hi > len(c.Samples) {
		return SampleRange{}, fmt.Errorf("%w: samples [%d:%d) of %d", ErrOutOfRange, lo, hi, len(c.Samples))
	}
	if lo >= hi {
		return SampleRange{}, fmt.Errorf("%w: empty span [%d:%d)", ErrMalformedField, lo, hi)
	}
	return SampleRange{Start: c.Samples[lo].Start, End: c.Samples[hi-1].End}, nil
}
