package pcapng

import "encoding/binary"

// decodeISB parses an Interface Statistics Block: interface id, a split
// timestamp, and a set of u64 counter options, then appends the
// snapshot to the referenced interface in arrival order.
func decodeISB(body []byte, order binary.ByteOrder, section *Section, offset int64) error {
	if len(body) < 12 {
		return newBlockErr(KindShortRead, offset, BlockTypeInterfaceStatistics, "interface statistics block body truncated")
	}
	ifaceID := order.Uint32(body[0:4])
	if int(ifaceID) >= len(section.Interfaces) {
		return newBlockErr(KindBadFile, offset, BlockTypeInterfaceStatistics, "interface id out of range")
	}
	ifc := section.Interfaces[ifaceID]

	tsHigh := order.Uint32(body[4:8])
	tsLow := order.Uint32(body[8:12])
	secs, nanos := timestampFromRaw(rawTimestamp(tsHigh, tsLow), ifc.TimeUnitsPerSec)

	opts, err := decodeOptions(body[12:], order, offset)
	if err != nil {
		return err
	}
	if err := validateOptionFamily(FamilyISB, opts, order, offset, NopLogger); err != nil {
		return err
	}

	stat := InterfaceStats{
		Timestamp: Timestamp{Seconds: secs, Nanoseconds: nanos, Precision: ifc.Precision},
		Options:   opts,
	}
	if t, ok := splitTimestampOption(opts, OptISBStartTime, order, ifc.TimeUnitsPerSec, ifc.Precision); ok {
		stat.StartTime = &t
	}
	if t, ok := splitTimestampOption(opts, OptISBEndTime, order, ifc.TimeUnitsPerSec, ifc.Precision); ok {
		stat.EndTime = &t
	}
	if v, ok := uint64Option(opts, OptISBIfRecv, order); ok {
		stat.IfRecv = &v
	}
	if v, ok := uint64Option(opts, OptISBIfDrop, order); ok {
		stat.IfDrop = &v
	}
	if v, ok := uint64Option(opts, OptISBFilterAccept, order); ok {
		stat.FilterAccept = &v
	}
	if v, ok := uint64Option(opts, OptISBOSDrop, order); ok {
		stat.OSDrop = &v
	}
	if v, ok := uint64Option(opts, OptISBUserDeliver, order); ok {
		stat.UserDeliver = &v
	}

	ifc.Stats = append(ifc.Stats, stat)
	return nil
}

// splitTimestampOption decodes an 8-byte option value carrying the same
// high/low 32-bit split the block-level timestamp fields use, not a
// single contiguous 64-bit integer.
func splitTimestampOption(opts []Option, code uint16, order binary.ByteOrder, unitsPerSecond uint64, precision Precision) (Timestamp, bool) {
	o, ok := findOption(opts, code)
	if !ok || len(o.Value) < 8 {
		return Timestamp{}, false
	}
	high := order.Uint32(o.Value[0:4])
	low := order.Uint32(o.Value[4:8])
	secs, nanos := timestampFromRaw(rawTimestamp(high, low), unitsPerSecond)
	return Timestamp{Seconds: secs, Nanoseconds: nanos, Precision: precision}, true
}
