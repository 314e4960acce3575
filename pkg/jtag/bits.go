package jtag

import "strings"

// PackBits packs shift-ordered bits LSB first into bytes.
func PackBits(bits []bool) []byte {
	if len(bits) == 0 {
		return nil
	}
	buf := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			buf[i/8] |= 1 << (uint(i) % 8)
		}
	}
	return buf
}

// UnpackBits is the inverse of PackBits. Missing bytes read as zero.
func UnpackBits(buf []byte, bits int) []bool {
	if bits <= 0 {
		return nil
	}
	out := make([]bool, bits)
	for i := 0; i < bits && i/8 < len(buf); i++ {
		out[i] = buf[i/8]&(1<<(uint(i)%8)) != 0
	}
	return out
}

// BitsFromUint returns the low n bits of v in shift order (LSB first).
func BitsFromUint(v uint64, n int) []bool {
	out := make([]bool, n)
	for i := 0; i < n && i < 64; i++ {
		out[i] = v&(1<<uint(i)) != 0
	}
	return out
}

// UintFromBits interprets shift-ordered bits as an unsigned integer.
// Bits past 64 are ignored.
func UintFromBits(bits []bool) uint64 {
	var v uint64
	for i := 0; i < len(bits) && i < 64; i++ {
		if bits[i] {
			v |= 1 << uint(i)
		}
	}
	return v
}

// BitString renders shift-ordered bits MSB first, the way capture front
// ends print register values.
func BitString(bits []bool) string {
	var b strings.Builder
	b.Grow(len(bits))
	for i := len(bits) - 1; i >= 0; i-- {
		if bits[i] {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
