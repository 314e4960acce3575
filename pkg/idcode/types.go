package idcode

// IDCode represents a parsed IEEE 1149.1 JTAG IDCODE
type IDCode struct {
	Raw              uint32 // full IDCODE
	Version          uint8  // [31:28]
	PartNumber       uint16 // [27:12]
	ManufacturerCode uint16 // [11:1] JEP106, bank and identity
	ContinuationCode uint8  // [11:8] JEP106 bank (count of 0x7f prefixes)
	IdentityCode     uint8  // [7:1] JEP106 code within the bank
	HasIDCode        bool   // bit 0 == 1
}

// Manufacturer represents a JEP106 manufacturer entry
type Manufacturer struct {
	Code         uint16 // bank << 7 | identity
	Name         string
	Abbreviation string
}
