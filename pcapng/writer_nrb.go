package pcapng

// nrbMaxBlockSize is the 1 MiB ceiling the writer holds Name
// Resolution Blocks to.
const nrbMaxBlockSize = 1 << 20

// NameResolutionEntry is one address-to-names mapping to be written
// into a Name Resolution Block.
type NameResolutionEntry struct {
	IPv6  bool
	Addr4 [4]byte
	Addr6 [16]byte
	Names []string
}

func (e NameResolutionEntry) encodedLen() int {
	addrLen := 4
	if e.IPv6 {
		addrLen = 16
	}
	n := addrLen
	for _, name := range e.Names {
		n += len(name) + 1
	}
	return align4(4 + n) // record header + value, padded
}

// maxNRBRecordValueLen is the most name bytes (names plus their NUL
// terminators) a single NRB record may carry after its address: the
// record's 16-bit length field, less the address and one byte. Names
// past this cannot be carried in one record regardless of chunking.
func maxNRBRecordValueLen(ipv6 bool) int {
	addrLen := 4
	if ipv6 {
		addrLen = 16
	}
	return 65535 - addrLen - 1
}

// WriteNameResolutions emits entries as one or more Name Resolution
// Blocks, each carrying options, closing the current block and opening
// a fresh one (with the same options) whenever the next entry would
// push the block's total size past nrbMaxBlockSize. An entry whose
// names (with their terminators) exceed maxNRBRecordValueLen is
// dropped rather than ever emitted.
func (w *Writer) WriteNameResolutions(entries []NameResolutionEntry, options []Option) error {
	encodedOpts := encodeOptions(options, w.order)

	var chunk []NameResolutionEntry
	// Block header and trailer, end-of-records record, options.
	baseSize := 8 + 4 + 4 + len(encodedOpts)
	size := baseSize

	flush := func() error {
		if len(chunk) == 0 && len(encodedOpts) == 0 {
			return nil
		}
		return w.writeNRB(chunk, encodedOpts)
	}

	for _, e := range entries {
		addrLen := 4
		if e.IPv6 {
			addrLen = 16
		}
		valueLen := addrLen
		for _, n := range e.Names {
			valueLen += len(n) + 1
		}
		if valueLen-addrLen > maxNRBRecordValueLen(e.IPv6) {
			continue // cannot fit in any single NRB record; dropped
		}

		entrySize := e.encodedLen()
		if len(chunk) > 0 && size+entrySize > nrbMaxBlockSize {
			if err := flush(); err != nil {
				return err
			}
			chunk = nil
			size = baseSize
		}
		chunk = append(chunk, e)
		size += entrySize
	}

	return flush()
}

func (w *Writer) writeNRB(entries []NameResolutionEntry, encodedOpts []byte) error {
	var body []byte
	for _, e := range entries {
		recType := nrbRecordIPv4
		addr := e.Addr4[:]
		if e.IPv6 {
			recType = nrbRecordIPv6
			addr = e.Addr6[:]
		}
		value := append([]byte(nil), addr...)
		for _, n := range e.Names {
			value = append(value, []byte(n)...)
			value = append(value, 0)
		}
		body = appendUint16(body, w.order, recType)
		body = appendUint16(body, w.order, uint16(len(value)))
		body = append(body, value...)
		pad := align4(len(value)) - len(value)
		body = append(body, make([]byte, pad)...)
	}
	// End-of-records record.
	body = appendUint16(body, w.order, nrbRecordEnd)
	body = appendUint16(body, w.order, 0)
	body = append(body, encodedOpts...)

	totalLength := uint32(8 + len(body) + 4)
	buf := make([]byte, 0, totalLength)
	buf = appendUint32(buf, w.order, uint32(BlockTypeNameResolution))
	buf = appendUint32(buf, w.order, totalLength)
	buf = append(buf, body...)
	buf = appendUint32(buf, w.order, totalLength)

	_, err := w.w.Write(buf)
	return err
}
