package jtag

import (
	"encoding/binary"
	"fmt"
)

// CMSIS-DAP command IDs used by the JTAG backend.
const (
	dapInfo         = 0x00
	dapConnect      = 0x02
	dapDisconnect   = 0x03
	dapResetTarget  = 0x0A
	dapSWJClock     = 0x11
	dapJTAGSequence = 0x14
)

// DAP_Info IDs
const (
	dapInfoVendor   = 0x01
	dapInfoProduct  = 0x02
	dapInfoSerial   = 0x03
	dapInfoFirmware = 0x04
)

const (
	dapPortJTAG = 2
	dapStatusOK = 0x00

	// A DAP_JTAG_Sequence info byte: TCK count in [5:0] (0 means 64), TMS
	// level in bit 6, TDO capture in bit 7.
	seqTCKMask = 0x3F
	seqTMS     = 0x40
	seqTDO     = 0x80

	maxSequenceBits = 64
)

// dapSequence is one constant-TMS run of a DAP_JTAG_Sequence command.
type dapSequence struct {
	tms  bool
	tdi  []bool
	keep bool // capture TDO
}

func (s dapSequence) info() byte {
	info := byte(len(s.tdi) & seqTCKMask)
	if s.tms {
		info |= seqTMS
	}
	if s.keep {
		info |= seqTDO
	}
	return info
}

// splitSequences cuts a shift into runs of equal TMS no longer than 64
// clocks, since a DAP sequence carries a single TMS level.
func splitSequences(tms, tdi []bool, keep bool) []dapSequence {
	var seqs []dapSequence
	for pos := 0; pos < len(tdi); {
		level := tms[pos]
		end := pos + 1
		for end < len(tdi) && end-pos < maxSequenceBits && tms[end] == level {
			end++
		}
		seqs = append(seqs, dapSequence{tms: level, tdi: tdi[pos:end], keep: keep})
		pos = end
	}
	return seqs
}

func encodeSequences(seqs []dapSequence) []byte {
	cmd := []byte{dapJTAGSequence, byte(len(seqs))}
	for _, s := range seqs {
		packed := PackBits(s.tdi)
		cmd = append(cmd, s.info())
		cmd = append(cmd, packed...)
	}
	return cmd
}

// decodeSequenceTDO concatenates the TDO bits of the capturing sequences.
func decodeSequenceTDO(resp []byte, seqs []dapSequence) ([]bool, error) {
	if err := dapStatus(resp, dapJTAGSequence); err != nil {
		return nil, err
	}
	var tdo []bool
	off := 2
	for _, s := range seqs {
		if !s.keep {
			continue
		}
		n := (len(s.tdi) + 7) / 8
		if off+n > len(resp) {
			return nil, fmt.Errorf("jtag: DAP_JTAG_Sequence response truncated")
		}
		tdo = append(tdo, UnpackBits(resp[off:off+n], len(s.tdi))...)
		off += n
	}
	return tdo, nil
}

// dapStatus checks the echoed command ID and the status byte of a response.
func dapStatus(resp []byte, cmd byte) error {
	if len(resp) < 2 {
		return fmt.Errorf("jtag: DAP response to 0x%02X too short", cmd)
	}
	if resp[0] != cmd {
		return fmt.Errorf("jtag: DAP response ID 0x%02X, want 0x%02X", resp[0], cmd)
	}
	if resp[1] != dapStatusOK {
		return fmt.Errorf("jtag: DAP command 0x%02X failed (status 0x%02X)", cmd, resp[1])
	}
	return nil
}

func decodeInfoString(resp []byte) (string, error) {
	if len(resp) < 2 || resp[0] != dapInfo {
		return "", fmt.Errorf("jtag: malformed DAP_Info response")
	}
	n := int(resp[1])
	if len(resp) < 2+n {
		return "", fmt.Errorf("jtag: DAP_Info string truncated")
	}
	return string(trimNUL(resp[2 : 2+n])), nil
}

func trimNUL(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return b
}

func encodeClock(hz uint32) []byte {
	cmd := make([]byte, 5)
	cmd[0] = dapSWJClock
	binary.LittleEndian.PutUint32(cmd[1:], hz)
	return cmd
}
