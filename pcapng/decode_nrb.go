package pcapng

import "encoding/binary"

// decodeNRB parses a Name Resolution Block: a stream of
// type/length/value records terminated by a type-0 record, followed by
// the block's own options. Each IPv4/IPv6 record holds an address
// followed by one or more NUL-terminated names; an unterminated name is
// a hard error rather than a tolerated shape, since there is no way to
// recover a record boundary from it.
func decodeNRB(body []byte, order binary.ByteOrder, offset int64, ipv4Sink func(addr [4]byte, names []string), ipv6Sink func(addr [16]byte, names []string)) error {
	data := body
	for {
		if len(data) < 4 {
			return newBlockErr(KindBadFile, offset, BlockTypeNameResolution, "name resolution record stream truncated")
		}
		recType := order.Uint16(data[0:2])
		recLen := order.Uint16(data[2:4])
		data = data[4:]

		if recType == nrbRecordEnd {
			break
		}
		if int(recLen) > len(data) {
			return newBlockErr(KindBadFile, offset, BlockTypeNameResolution, "name resolution record runs past block body")
		}
		value := data[:recLen]

		switch recType {
		case nrbRecordIPv4:
			names, err := splitResolutionNames(value, 4, offset)
			if err != nil {
				return err
			}
			if ipv4Sink != nil {
				var addr [4]byte
				copy(addr[:], value[:4])
				ipv4Sink(addr, names)
			}
		case nrbRecordIPv6:
			names, err := splitResolutionNames(value, 16, offset)
			if err != nil {
				return err
			}
			if ipv6Sink != nil {
				var addr [16]byte
				copy(addr[:], value[:16])
				ipv6Sink(addr, names)
			}
		default:
			// Unknown record type: length-skipped, not parsed.
		}

		data = data[align4(int(recLen)):]
	}

	// The remainder, if any, is the block's own options (comment,
	// dns_name, dns_ipv4, dns_ipv6); not deeply processed, merely
	// validated for shape.
	opts, err := decodeOptions(data, order, offset)
	if err != nil {
		return err
	}
	return validateOptionFamily(FamilyNRB, opts, order, offset, NopLogger)
}

// splitResolutionNames locates each NUL-terminated name following the
// addrLen-byte address in value. An unterminated trailing name is a
// hard KindBadFile error: there is no way to recover a record boundary
// from it.
func splitResolutionNames(value []byte, addrLen int, offset int64) ([]string, error) {
	if len(value) < addrLen {
		return nil, newBlockErr(KindBadFile, offset, BlockTypeNameResolution, "name resolution record shorter than its address")
	}
	rest := value[addrLen:]
	var names []string
	for len(rest) > 0 {
		nul := -1
		for i, b := range rest {
			if b == 0 {
				nul = i
				break
			}
		}
		if nul == -1 {
			return nil, newBlockErr(KindBadFile, offset, BlockTypeNameResolution, "unterminated name in name resolution record")
		}
		names = append(names, string(rest[:nul]))
		rest = rest[nul+1:]
	}
	return names, nil
}
