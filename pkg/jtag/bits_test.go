package jtag

import (
	"bytes"
	"testing"
)

func TestPackUnpackBits(t *testing.T) {
	bits := []bool{true, false, true, true, false, false, false, false, true}
	packed := PackBits(bits)
	if !bytes.Equal(packed, []byte{0x0D, 0x01}) {
		t.Fatalf("PackBits = %X, want 0D01", packed)
	}

	got := UnpackBits(packed, len(bits))
	for i := range bits {
		if got[i] != bits[i] {
			t.Fatalf("bit %d = %v, want %v", i, got[i], bits[i])
		}
	}

	if PackBits(nil) != nil {
		t.Fatalf("PackBits(nil) should be nil")
	}
	if short := UnpackBits([]byte{0xFF}, 12); short[8] || !short[7] {
		t.Fatalf("missing bytes must read as zero: %v", short)
	}
}

func TestUintBits(t *testing.T) {
	bits := BitsFromUint(0x3ba00477, 32)
	if v := UintFromBits(bits); v != 0x3ba00477 {
		t.Fatalf("round trip = %#x", v)
	}
	if !bits[0] || bits[3] {
		t.Fatalf("BitsFromUint must be LSB first: %v", bits[:4])
	}
	if s := BitString(BitsFromUint(0x11, 5)); s != "10001" {
		t.Fatalf("BitString = %q, want 10001", s)
	}
	if s := BitString(BitsFromUint(0x6, 4)); s != "0110" {
		t.Fatalf("BitString = %q, want 0110", s)
	}
}
