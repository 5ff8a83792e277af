package pcapng

import "encoding/binary"

// resolveByteOrder determines a section's byte order from the raw
// 4-byte Byte-Order-Magic field of its Section Header Block. The field
// is defined to hold the value 0x1A2B3C4D written in the section's own
// order; whichever fixed interpretation (little- or big-endian)
// reproduces that canonical value names the section's real order.
// Reading it the other way round reproduces 0x4D3C2B1A, the
// "swapped" magic. Anything else is not a pcapng section at all.
func resolveByteOrder(raw []byte) (order binary.ByteOrder, swapped bool, ok bool) {
	if binary.LittleEndian.Uint32(raw) == byteOrderMagicNative {
		return binary.LittleEndian, false, true
	}
	if binary.BigEndian.Uint32(raw) == byteOrderMagicNative {
		return binary.BigEndian, true, true
	}
	return nil, false, false
}

// byteOrderMagicFor returns the magic a writer must emit (always
// encoded little-endian) to select order.
func byteOrderMagicFor(order binary.ByteOrder) uint32 {
	if order == binary.BigEndian {
		return byteOrderMagicSwapped
	}
	return byteOrderMagicNative
}

func swap16(v uint16) uint16 {
	return v<<8 | v>>8
}

func swap32(v uint32) uint32 {
	return v<<24 | (v&0xff00)<<8 | (v&0xff0000)>>8 | v>>24
}
