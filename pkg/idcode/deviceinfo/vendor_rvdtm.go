package deviceinfo

// RISC-V debug transport modules (SiFive, Espressif)
func init() {
	register(0x489, 0x0000, DeviceInfo{
		Name:        "SiFive E/U core complex DTM",
		Family:      "SiFive",
		Description: "RISC-V Debug Transport Module",
		Transport:   TransportRISCVDTM,
		IRLength:    5,
		Catalog:     "riscv",
	})

	register(0x612, 0x0005, DeviceInfo{
		Name:        "ESP32-C3",
		Family:      "ESP32-C",
		Description: "Espressif RISC-V SoC (built-in USB-JTAG)",
		Transport:   TransportRISCVDTM,
		IRLength:    5,
		Catalog:     "riscv",
	})
}
