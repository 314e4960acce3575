package riscv

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceIndexing(t *testing.T) {
	bits := "110100"
	cases := []struct {
		start, end int
		want       string
	}{
		{0, 2, "11"},
		{2, 6, "0100"},
		{-3, -1, "10"},
		{0, -3, "110"},
		{-6, 6, "110100"},
		{3, 3, ""},
	}
	for _, tc := range cases {
		got, err := Slice(bits, tc.start, tc.end)
		require.NoError(t, err, "Slice(%d, %d)", tc.start, tc.end)
		require.Equal(t, tc.want, got, "Slice(%d, %d)", tc.start, tc.end)
	}
}

func TestSliceErrors(t *testing.T) {
	_, err := Slice("1010", 0, 5)
	require.True(t, errors.Is(err, ErrOutOfRange))

	_, err = Slice("1010", -5, 2)
	require.True(t, errors.Is(err, ErrOutOfRange))

	_, err = Slice("1010", 3, 1)
	require.True(t, errors.Is(err, ErrMalformedField))
}

func TestToUnsigned(t *testing.T) {
	v, err := ToUnsigned("00111011101000000000010001110111")
	require.NoError(t, err)
	require.Equal(t, uint64(0x3ba00477), v)

	_, err = ToUnsigned("")
	require.True(t, errors.Is(err, ErrMalformedField))

	_, err = ToUnsigned("10x1")
	require.True(t, errors.Is(err, ErrMalformedField))
}

// Flipping bits outside [start, end) never changes the sliced value.
func TestSliceIsLossless(t *testing.T) {
	const bits = "1011001110001111010110010"
	flip := func(s string, i int) string {
		b := []byte(s)
		b[i] ^= 1
		return string(b)
	}
	for start := 0; start < len(bits); start++ {
		for end := start + 1; end <= len(bits); end++ {
			sub, err := Slice(bits, start, end)
			require.NoError(t, err)
			want, err := strconv.ParseUint(bits[start:end], 2, 64)
			require.NoError(t, err)
			got, err := ToUnsigned(sub)
			require.NoError(t, err)
			require.Equal(t, want, got)

			for i := 0; i < len(bits); i++ {
				if i >= start && i < end {
					continue
				}
				other, err := Slice(flip(bits, i), start, end)
				require.NoError(t, err)
				require.Equal(t, sub, other)
			}
		}
	}
}

func TestIsAllZeroAndPattern(t *testing.T) {
	require.True(t, IsAllZero("0000000"))
	require.True(t, IsAllZero(""))
	require.False(t, IsAllZero("0001000"))

	require.True(t, MatchesPattern("10001", "10001"))
	require.False(t, MatchesPattern("10001", "10000"))
	require.False(t, MatchesPattern("1000", "10001"))
	require.True(t, MatchesPattern("10110", "101xx"))
	require.False(t, MatchesPattern("11110", "101xx"))
}

func TestCaptureFieldNumbering(t *testing.T) {
	ev, err := Classify(shifted(CommandDRTDO, "1100101", 0))
	require.NoError(t, err)
	c := ev.Capture

	// Register bit 0 is the last character of the MSB-first string.
	lsb, err := c.Field(0, 1)
	require.NoError(t, err)
	require.Equal(t, "1", lsb)

	top, err := c.Uint(4, 7)
	require.NoError(t, err)
	require.Equal(t, uint64(0x6), top)

	span, err := c.Span(1, 3)
	require.NoError(t, err)
	require.Equal(t, SampleRange{Start: 10, End: 30}, span)

	_, err = c.Field(5, 8)
	require.True(t, errors.Is(err, ErrOutOfRange))
	_, err = c.Field(3, 3)
	require.True(t, errors.Is(err, ErrMalformedField))
}
