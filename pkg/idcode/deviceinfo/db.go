package deviceinfo

import "github.com/OpenTraceLab/OpenTraceRV/pkg/idcode"

// partKey packs the JEP106 code and part number into the table key. The
// version nibble is left out so silicon revisions share an entry.
func partKey(manufacturer, part uint16) uint32 {
	return uint32(manufacturer)<<16 | uint32(part)
}

var known = map[uint32]DeviceInfo{}

func register(manufacturer, part uint16, info DeviceInfo) {
	info.Known = true
	known[partKey(manufacturer, part)] = info
}

// Lookup decodes rawID and attaches the matching table entry. IDs with no
// entry still come back with the decoded fields and manufacturer filled in.
func Lookup(rawID uint32) DeviceInfo {
	id := idcode.ParseIDCode(rawID)
	info, ok := known[partKey(id.ManufacturerCode, id.PartNumber)]
	if !ok {
		info = DeviceInfo{Name: "Unknown device", Description: "No entry in device database"}
	}
	info.IDCode = id
	info.Manufacturer, _ = idcode.LookupManufacturer(id.ManufacturerCode)
	return info
}
