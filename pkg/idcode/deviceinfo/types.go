package deviceinfo

import "github.com/OpenTraceLab/OpenTraceRV/pkg/idcode"

// Transport names the debug transport a TAP exposes.
type Transport string

const (
	TransportUnknown  Transport = ""
	TransportRISCVDTM Transport = "riscv-dtm"
	TransportARMDP    Transport = "arm-jtag-dp"
)

// DeviceInfo describes a known debug TAP
type DeviceInfo struct {
	// Key fields
	IDCode       idcode.IDCode
	Manufacturer idcode.Manufacturer

	// Human-friendly
	Name        string // "JTAG-DP"
	Family      string // "CoreSight"
	Description string

	// JTAG specifics
	Transport Transport
	IRLength  int
	Catalog   string // instruction catalog the decoder should use
	Known     bool
}
