package deviceinfo

// ARM debug port TAPs
func init() {
	const arm = 0x23B

	register(arm, 0xBA00, DeviceInfo{
		Name:        "JTAG-DP",
		Family:      "CoreSight",
		Description: "ARM JTAG Debug Port (Cortex-M3 r1p1 and later)",
		Transport:   TransportARMDP,
		IRLength:    4,
		Catalog:     "arm-jtag-dp",
	})

	register(arm, 0xBA10, DeviceInfo{
		Name:        "SW-DP",
		Family:      "CoreSight",
		Description: "ARM Serial Wire Debug Port",
		Transport:   TransportARMDP,
		IRLength:    4,
		Catalog:     "arm-jtag-dp",
	})

	register(arm, 0xBA01, DeviceInfo{
		Name:        "SWJ-DP",
		Family:      "CoreSight",
		Description: "ARM Serial Wire / JTAG Debug Port",
		Transport:   TransportARMDP,
		IRLength:    4,
		Catalog:     "arm-jtag-dp",
	})
}
