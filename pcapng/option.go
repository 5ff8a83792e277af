package pcapng

import (
	"encoding/binary"
)

// BlockFamily is the fixed 7-way collapse of block types used to key
// the option-handler registry: SHB, IDB, the packet family (PB/EPB/SPB
// share one option namespace), NRB, ISB, the event family (Sysdig v1/v2
// share), and DSB.
type BlockFamily int

const (
	FamilySHB BlockFamily = iota
	FamilyIDB
	FamilyPacket
	FamilyNRB
	FamilyISB
	FamilyEvent
	FamilyDSB
)

func familyFor(bt BlockType) (BlockFamily, bool) {
	switch bt {
	case BlockTypeSectionHeader:
		return FamilySHB, true
	case BlockTypeInterfaceDescription:
		return FamilyIDB, true
	case BlockTypePacket, BlockTypeEnhancedPacket, BlockTypeSimplePacket:
		return FamilyPacket, true
	case BlockTypeNameResolution:
		return FamilyNRB, true
	case BlockTypeInterfaceStatistics:
		return FamilyISB, true
	case BlockTypeSysdigEvent, BlockTypeSysdigEventV2:
		return FamilyEvent, true
	case BlockTypeDecryptionSecrets:
		return FamilyDSB, true
	default:
		return 0, false
	}
}

// decodeOptions parses a TLV option stream bounded by data (already
// sliced to the enclosing block's option region), stopping at the
// first end-of-options sentinel. Non-zero padding bytes and any extra
// bytes after a recognized terminator are tolerated; every other
// malformed shape is a KindBadFile error.
func decodeOptions(data []byte, order binary.ByteOrder, offset int64) ([]Option, error) {
	var out []Option
	for len(data) > 0 {
		if len(data) < 4 {
			// Trailing slack shorter than one TLV header is tolerated
			// rather than rejected.
			break
		}
		code := order.Uint16(data[0:2])
		length := order.Uint16(data[2:4])
		data = data[4:]

		if code == OptEndOfOpts {
			break
		}

		if int(length) > len(data) {
			return nil, newErr(KindBadFile, offset, "option value runs past block body")
		}
		value := make([]byte, length)
		copy(value, data[:length])
		out = append(out, Option{Code: code, Value: value})

		padded := align4(int(length))
		if padded > len(data) {
			return nil, newErr(KindBadFile, offset, "option padding runs past block body")
		}
		data = data[padded:]
	}
	return out, nil
}

// encodeOptions serializes options as a TLV stream followed by the
// end-of-options sentinel, or returns an empty slice when there are no
// options at all: the sentinel is only emitted when at least one option
// is present.
func encodeOptions(options []Option, order binary.ByteOrder) []byte {
	if len(options) == 0 {
		return nil
	}
	size := 0
	for _, opt := range options {
		size += 4 + align4(len(opt.Value))
	}
	size += 4 // end-of-options
	buf := make([]byte, 0, size)
	for _, opt := range options {
		buf = appendUint16(buf, order, opt.Code)
		buf = appendUint16(buf, order, uint16(len(opt.Value)))
		buf = append(buf, opt.Value...)
		buf = append(buf, make([]byte, align4(len(opt.Value))-len(opt.Value))...)
	}
	buf = appendUint16(buf, order, OptEndOfOpts)
	buf = appendUint16(buf, order, 0)
	return buf
}

func optionsEncodedLen(options []Option) int {
	if len(options) == 0 {
		return 0
	}
	size := 4
	for _, opt := range options {
		size += 4 + align4(len(opt.Value))
	}
	return size
}

func align4(n int) int {
	return (n + 3) &^ 3
}

func appendUint16(buf []byte, order binary.ByteOrder, v uint16) []byte {
	var tmp [2]byte
	order.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendUint32(buf []byte, order binary.ByteOrder, v uint32) []byte {
	var tmp [4]byte
	order.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendUint64(buf []byte, order binary.ByteOrder, v uint64) []byte {
	var tmp [8]byte
	order.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// findOption returns the first option with the given code, if any.
func findOption(options []Option, code uint16) (Option, bool) {
	for _, o := range options {
		if o.Code == code {
			return o, true
		}
	}
	return Option{}, false
}

func findOptions(options []Option, code uint16) []Option {
	var out []Option
	for _, o := range options {
		if o.Code == code {
			out = append(out, o)
		}
	}
	return out
}

func stringOption(options []Option, code uint16) (string, bool) {
	if o, ok := findOption(options, code); ok {
		return string(o.Value), true
	}
	return "", false
}

func uint32Option(options []Option, code uint16, order binary.ByteOrder) (uint32, bool) {
	if o, ok := findOption(options, code); ok && len(o.Value) >= 4 {
		return order.Uint32(o.Value), true
	}
	return 0, false
}

func uint64Option(options []Option, code uint16, order binary.ByteOrder) (uint64, bool) {
	if o, ok := findOption(options, code); ok && len(o.Value) >= 8 {
		return order.Uint64(o.Value), true
	}
	return 0, false
}
