package pcapng

import "encoding/binary"

// decodeSPB decodes a Simple Packet Block: a bare 32-bit wire length
// with no interface id, timestamp, or options. Captured length is
// derived from the first interface's snaplen (0 meaning unlimited); a
// section with no interfaces yet cannot carry one.
func decodeSPB(body []byte, order binary.ByteOrder, section *Section, offset int64) (*Record, error) {
	if len(body) < 4 {
		return nil, newBlockErr(KindShortRead, offset, BlockTypeSimplePacket, "simple packet block body truncated")
	}
	if len(section.Interfaces) == 0 {
		return nil, newBlockErr(KindBadFile, offset, BlockTypeSimplePacket, "simple packet block with no interface in section")
	}
	ifc := section.Interfaces[0]

	wireLen := order.Uint32(body[0:4])
	capLen := wireLen
	if ifc.SnapLen != 0 && ifc.SnapLen < capLen {
		capLen = ifc.SnapLen
	}

	payload := body[4:]
	if uint64(capLen) > uint64(len(payload)) {
		return nil, newBlockErr(KindBadFile, offset, BlockTypeSimplePacket, "captured length exceeds remaining block data")
	}

	return &Record{
		Kind:          RecordPacket,
		InterfaceID:   0,
		HasInterface:  true,
		CapturedLen:   capLen,
		WireLen:       wireLen,
		Encapsulation: ifc.Encapsulation,
		Payload:       append([]byte(nil), payload[:capLen]...),
	}, nil
}
