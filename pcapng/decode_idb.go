package pcapng

import "encoding/binary"

// decodeIDB parses an Interface Description Block: 16-bit link type, 16
// reserved bits, 32-bit snaplen, followed by options. The link type is
// resolved to an internal Encapsulation through table; an unrecognized
// DLT is retained as EncapUnknown rather than rejected, so a file using
// a link type this build's table doesn't know about can still be read
// (just not acted on by encapsulation-aware logic).
func decodeIDB(body []byte, order binary.ByteOrder, offset int64, table LinkTypeTable, logger Logger) (*InterfaceDescriptor, error) {
	if len(body) < 8 {
		return nil, newBlockErr(KindShortRead, offset, BlockTypeInterfaceDescription, "interface description block body truncated")
	}
	linkType := order.Uint16(body[0:2])
	snapLen := order.Uint32(body[4:8])

	encap, _ := table.FromDLT(linkType)

	opts, err := decodeOptions(body[8:], order, offset)
	if err != nil {
		return nil, err
	}
	if err := validateOptionFamily(FamilyIDB, opts, order, offset, logger); err != nil {
		return nil, err
	}

	ifc := &InterfaceDescriptor{
		LinkType:      linkType,
		Encapsulation: encap,
		SnapLen:       snapLen,
		FCSLen:        -1,
		Options:       opts,
	}

	if o, ok := findOption(opts, OptIDBTSResol); ok && len(o.Value) >= 1 {
		ifc.TimeUnitsPerSec = unitsPerSecondFor(o.Value[0])
	} else {
		ifc.TimeUnitsPerSec = 1_000_000
	}
	ifc.Precision = precisionFor(ifc.TimeUnitsPerSec)

	if o, ok := findOption(opts, OptIDBFilter); ok {
		ifc.Filter = decodeIfFilter(o.Value, order)
	}

	if o, ok := findOption(opts, OptIDBFCSLen); ok && len(o.Value) >= 1 {
		ifc.FCSLen = int(o.Value[0])
	}

	if logger != nil && snapLen != 0 {
		if max := table.MaxSnaplen(encap); snapLen > max {
			logger.Warnf("interface declares snaplen %d exceeding encapsulation maximum %d", snapLen, max)
		}
	}

	return ifc, nil
}
