package jtag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"
)

const (
	// Raspberry Pi debug probe / picoprobe in CMSIS-DAP mode.
	VendorIDRaspberryPi = 0x2E8A
	ProductIDCMSISDAP   = 0x000C

	defaultPacketSize = 64
	usbTimeout        = 5 * time.Second
)

// ProbeInfo describes a connected CMSIS-DAP probe.
type ProbeInfo struct {
	VendorID    uint16
	ProductID   uint16
	Serial      string
	Description string
}

// Label returns a user-friendly description for the probe.
func (p ProbeInfo) Label() string {
	if p.Description != "" {
		return fmt.Sprintf("%s (%04X:%04X)", p.Description, p.VendorID, p.ProductID)
	}
	return fmt.Sprintf("CMSIS-DAP %04X:%04X", p.VendorID, p.ProductID)
}

var knownProbes = []ProbeInfo{
	{VendorID: VendorIDRaspberryPi, ProductID: ProductIDCMSISDAP, Description: "Raspberry Pi Debug Probe"},
	{VendorID: 0x0d28, ProductID: 0x0204, Description: "DAPLink"},
	{VendorID: 0x1366, ProductID: 0x0101, Description: "SEGGER J-Link (CMSIS-DAP)"},
}

// ListProbes enumerates connected USB devices with known CMSIS-DAP IDs.
func ListProbes(ctx context.Context) ([]ProbeInfo, error) {
	usb := gousb.NewContext()
	defer usb.Close()

	var found []ProbeInfo
	devs, err := usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if ctx.Err() != nil {
			return false
		}
		for _, k := range knownProbes {
			if uint16(desc.Vendor) == k.VendorID && uint16(desc.Product) == k.ProductID {
				return true
			}
		}
		return false
	})
	for _, dev := range devs {
		info := ProbeInfo{VendorID: uint16(dev.Desc.Vendor), ProductID: uint16(dev.Desc.Product)}
		info.Serial, _ = dev.SerialNumber()
		if product, err := dev.Product(); err == nil {
			info.Description = product
		}
		found = append(found, info)
		dev.Close()
	}
	if err != nil && !errors.Is(err, gousb.ErrorAccess) {
		return found, fmt.Errorf("jtag: enumerate USB: %w", err)
	}
	return found, ctx.Err()
}

// USBLink is a DAPLink over the probe's vendor-class bulk endpoints.
type USBLink struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface

	out *gousb.OutEndpoint
	in  *gousb.InEndpoint

	packetSize int
}

// OpenUSBLink opens the first device matching vid:pid.
func OpenUSBLink(vid, pid uint16) (*USBLink, error) {
	l := &USBLink{ctx: gousb.NewContext(), packetSize: defaultPacketSize}

	dev, err := l.ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err == nil && dev == nil {
		err = fmt.Errorf("device %04X:%04X not found", vid, pid)
	}
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("jtag: open probe: %w", err)
	}
	l.dev = dev
	// Not supported on every platform.
	_ = dev.SetAutoDetach(true)

	if err := l.claim(); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

// claim takes the vendor-specific interface (falling back to 0) and its
// bulk endpoint pair.
func (l *USBLink) claim() error {
	cfg, err := l.dev.Config(1)
	if err != nil {
		return fmt.Errorf("jtag: USB config: %w", err)
	}
	l.cfg = cfg

	num := 0
	for _, intf := range cfg.Desc.Interfaces {
		if len(intf.AltSettings) > 0 && intf.AltSettings[0].Class == gousb.ClassVendorSpec {
			num = intf.Number
			break
		}
	}
	intf, err := cfg.Interface(num, 0)
	if err != nil {
		return fmt.Errorf("jtag: claim interface %d: %w", num, err)
	}
	l.intf = intf

	outNum, inNum := -1, -1
	for _, ep := range intf.Setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		switch {
		case ep.Direction == gousb.EndpointDirectionOut && outNum < 0:
			outNum = ep.Number
		case ep.Direction == gousb.EndpointDirectionIn && inNum < 0:
			inNum = ep.Number
			l.packetSize = ep.MaxPacketSize
		}
	}
	if outNum < 0 || inNum < 0 {
		return fmt.Errorf("jtag: probe has no bulk endpoint pair")
	}

	if l.out, err = intf.OutEndpoint(outNum); err != nil {
		return fmt.Errorf("jtag: OUT endpoint: %w", err)
	}
	if l.in, err = intf.InEndpoint(inNum); err != nil {
		return fmt.Errorf("jtag: IN endpoint: %w", err)
	}
	return nil
}

// Transfer writes one command packet and reads the response.
func (l *USBLink) Transfer(cmd []byte) ([]byte, error) {
	if len(cmd) > l.packetSize {
		// TODO: split long shifts across several DAP_JTAG_Sequence packets.
		return nil, fmt.Errorf("%w: DAP command of %d bytes exceeds packet size %d", ErrNotImplemented, len(cmd), l.packetSize)
	}
	ctx, cancel := context.WithTimeout(context.Background(), usbTimeout)
	defer cancel()

	packet := make([]byte, l.packetSize)
	copy(packet, cmd)
	if _, err := l.out.WriteContext(ctx, packet); err != nil {
		return nil, fmt.Errorf("jtag: USB write: %w", err)
	}

	resp := make([]byte, l.packetSize)
	n, err := l.in.ReadContext(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("jtag: USB read: %w", err)
	}
	return resp[:n], nil
}

// Close releases USB resources
func (l *USBLink) Close() error {
	if l.intf != nil {
		l.intf.Close()
		l.intf = nil
	}
	if l.cfg != nil {
		l.cfg.Close()
		l.cfg = nil
	}
	if l.dev != nil {
		l.dev.Close()
		l.dev = nil
	}
	if l.ctx != nil {
		l.ctx.Close()
		l.ctx = nil
	}
	return nil
}
