package pcapng

import "encoding/binary"

// epbFixedLen/pbFixedLen are the smallest bodies PB/EPB can have before
// any payload or options: interface id, timestamp, caplen, wirelen. PB
// additionally carries a 16-bit drop count ahead of the timestamp.
const (
	epbFixedLen = 4 + 16 // interface id, then ts_high+ts_low+caplen+wirelen
	pbFixedLen  = 4 + 16 // interface id + drop count, then ts_high+ts_low+caplen+wirelen
)

// decodePacketFamily decodes the obsolete Packet Block and the
// Enhanced Packet Block, which share everything but their fixed
// prefix: PB has a 16-bit interface id followed by a 16-bit drop count
// ahead of the timestamp, where EPB has a 32-bit interface id.
func decodePacketFamily(bt BlockType, body []byte, order binary.ByteOrder, section *Section, offset int64, table LinkTypeTable, logger Logger) (*Record, error) {
	var ifaceID uint32
	var dropCount uint64
	var hasDropCount bool
	var rest []byte

	switch bt {
	case BlockTypeEnhancedPacket:
		if len(body) < epbFixedLen {
			return nil, newBlockErr(KindShortRead, offset, bt, "enhanced packet block body truncated")
		}
		ifaceID = order.Uint32(body[0:4])
		rest = body[4:]
	case BlockTypePacket:
		if len(body) < pbFixedLen {
			return nil, newBlockErr(KindShortRead, offset, bt, "packet block body truncated")
		}
		ifaceID = uint32(order.Uint16(body[0:2]))
		dropCount = uint64(order.Uint16(body[2:4]))
		hasDropCount = true
		rest = body[4:]
	default:
		return nil, newBlockErr(KindInternal, offset, bt, "decodePacketFamily called with unexpected block type")
	}

	if int(ifaceID) >= len(section.Interfaces) {
		return nil, newBlockErr(KindBadFile, offset, bt, "interface id out of range")
	}
	ifc := section.Interfaces[ifaceID]

	if len(rest) < 16 {
		return nil, newBlockErr(KindShortRead, offset, bt, "packet block fixed fields truncated")
	}
	tsHigh := order.Uint32(rest[0:4])
	tsLow := order.Uint32(rest[4:8])
	capLen := order.Uint32(rest[8:12])
	wireLen := order.Uint32(rest[12:16])
	rest = rest[16:]

	if max := table.MaxSnaplen(ifc.Encapsulation); capLen > max {
		return nil, newBlockErr(KindBadFile, offset, bt, "captured length exceeds encapsulation maximum")
	}
	if uint64(capLen) > uint64(len(rest)) {
		return nil, newBlockErr(KindBadFile, offset, bt, "captured length exceeds remaining block data")
	}

	payload := append([]byte(nil), rest[:capLen]...)
	tail := rest[align4(int(capLen)):]

	opts, err := decodeOptions(tail, order, offset)
	if err != nil {
		return nil, err
	}
	if err := validateOptionFamily(FamilyPacket, opts, order, offset, logger); err != nil {
		return nil, err
	}

	secs, nanos := timestampFromRaw(rawTimestamp(tsHigh, tsLow), ifc.TimeUnitsPerSec)

	rec := &Record{
		Kind:          RecordPacket,
		InterfaceID:   ifaceID,
		HasInterface:  true,
		Timestamp:     Timestamp{Seconds: secs, Nanoseconds: nanos, Precision: ifc.Precision},
		HasTimestamp:  true,
		CapturedLen:   capLen,
		WireLen:       wireLen,
		Encapsulation: ifc.Encapsulation,
		Payload:       payload,
		DropCount:     dropCount,
		HasDropCount:  hasDropCount,
	}

	if c, ok := stringOption(opts, OptComment); ok {
		rec.Comment, rec.HasComment = c, true
	}
	if f, ok := uint32Option(opts, OptEPBFlags, order); ok {
		rec.Flags, rec.HasFlags = f, true
	}
	if d, ok := uint64Option(opts, OptEPBDropCount, order); ok {
		rec.DropCount, rec.HasDropCount = d, true
	}
	if p, ok := uint64Option(opts, OptEPBPacketID, order); ok {
		rec.PacketID, rec.HasPacketID = p, true
	}
	if q, ok := uint32Option(opts, OptEPBQueue, order); ok {
		rec.QueueID, rec.HasQueueID = q, true
	}
	for _, o := range findOptions(opts, OptEPBVerdict) {
		v, err := decodeVerdict(o.Value, order)
		if err != nil {
			return nil, wrapErr(KindBadFile, offset, "malformed epb_verdict option", err)
		}
		rec.Verdicts = append(rec.Verdicts, v)
	}

	codec := pseudoHeaderCodecFor(ifc.Encapsulation)
	consumed, err := codec.Consume(ifc.Encapsulation, rec.Payload)
	if err != nil {
		return nil, wrapErr(KindBadFile, offset, "pseudo-header codec rejected payload", err)
	}
	if consumed > 0 {
		if consumed > len(rec.Payload) {
			return nil, newBlockErr(KindBadFile, offset, bt, "pseudo-header codec consumed more than the captured payload")
		}
		rec.Payload = rec.Payload[consumed:]
		rec.CapturedLen -= uint32(consumed)
		if rec.WireLen >= uint32(consumed) {
			rec.WireLen -= uint32(consumed)
		}
	}

	return rec, nil
}
