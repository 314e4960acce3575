package jtag

import (
	"fmt"
	"sync"
)

// DAPLink carries CMSIS-DAP command/response packets.
type DAPLink interface {
	Transfer(cmd []byte) ([]byte, error)
	Close() error
}

// DAPAdapter implements Adapter on top of a CMSIS-DAP probe.
type DAPAdapter struct {
	link DAPLink
	info AdapterInfo

	mu sync.Mutex // one command/response pair at a time
}

// OpenCMSISDAP opens the USB probe with the given IDs and connects its JTAG
// port.
func OpenCMSISDAP(vid, pid uint16) (*DAPAdapter, error) {
	link, err := OpenUSBLink(vid, pid)
	if err != nil {
		return nil, err
	}
	a, err := NewDAPAdapter(link)
	if err != nil {
		link.Close()
		return nil, err
	}
	return a, nil
}

// NewDAPAdapter queries the probe and switches it to JTAG mode.
func NewDAPAdapter(link DAPLink) (*DAPAdapter, error) {
	a := &DAPAdapter{link: link}
	a.info = AdapterInfo{
		Name:         "CMSIS-DAP Probe",
		MaxFrequency: 10_000_000,
		SupportsTRST: false, // DAP_JTAG_Sequence has no TRST line
	}
	for _, q := range []struct {
		id  byte
		dst *string
	}{
		{dapInfoVendor, &a.info.Vendor},
		{dapInfoProduct, &a.info.Model},
		{dapInfoSerial, &a.info.Serial},
		{dapInfoFirmware, &a.info.Firmware},
	} {
		resp, err := link.Transfer([]byte{dapInfo, q.id})
		if err != nil {
			return nil, fmt.Errorf("jtag: DAP_Info: %w", err)
		}
		// Probes may leave optional strings empty.
		*q.dst, _ = decodeInfoString(resp)
	}

	resp, err := link.Transfer([]byte{dapConnect, dapPortJTAG})
	if err != nil {
		return nil, fmt.Errorf("jtag: DAP_Connect: %w", err)
	}
	if len(resp) < 2 || resp[0] != dapConnect || resp[1] != dapPortJTAG {
		return nil, fmt.Errorf("jtag: probe refused JTAG mode (% X)", resp)
	}
	return a, nil
}

func (a *DAPAdapter) Info() (AdapterInfo, error) {
	return a.info, nil
}

func (a *DAPAdapter) ShiftIR(tms, tdi []byte, bits int) ([]byte, error) {
	return a.shift(tms, tdi, bits)
}

func (a *DAPAdapter) ShiftDR(tms, tdi []byte, bits int) ([]byte, error) {
	return a.shift(tms, tdi, bits)
}

func (a *DAPAdapter) shift(tms, tdi []byte, bits int) ([]byte, error) {
	if _, err := ValidateShiftBuffers(tms, tdi, bits); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	seqs := splitSequences(UnpackBits(tms, bits), UnpackBits(tdi, bits), true)
	resp, err := a.link.Transfer(encodeSequences(seqs))
	if err != nil {
		return nil, fmt.Errorf("jtag: shift: %w", err)
	}
	tdo, err := decodeSequenceTDO(resp, seqs)
	if err != nil {
		return nil, err
	}
	return PackBits(tdo), nil
}

// ResetTAP clocks five TMS=1 cycles. A hard reset additionally pulses the
// probe's target reset line first.
func (a *DAPAdapter) ResetTAP(hard bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if hard {
		resp, err := a.link.Transfer([]byte{dapResetTarget})
		if err != nil {
			return fmt.Errorf("jtag: DAP_ResetTarget: %w", err)
		}
		if err := dapStatus(resp, dapResetTarget); err != nil {
			return err
		}
	}

	seqs := []dapSequence{{tms: true, tdi: make([]bool, 5)}}
	resp, err := a.link.Transfer(encodeSequences(seqs))
	if err != nil {
		return fmt.Errorf("jtag: TAP reset: %w", err)
	}
	return dapStatus(resp, dapJTAGSequence)
}

func (a *DAPAdapter) SetSpeed(hz int) error {
	if hz <= 0 || hz > a.info.MaxFrequency {
		return fmt.Errorf("jtag: frequency %d Hz out of range (0, %d]", hz, a.info.MaxFrequency)
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	resp, err := a.link.Transfer(encodeClock(uint32(hz)))
	if err != nil {
		return fmt.Errorf("jtag: DAP_SWJ_Clock: %w", err)
	}
	return dapStatus(resp, dapSWJClock)
}

// Close disconnects the probe and releases the link.
func (a *DAPAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.link.Transfer([]byte{dapDisconnect})
	return a.link.Close()
}
