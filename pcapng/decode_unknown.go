package pcapng

import "encoding/binary"

// handleUnknownBlock consults the extension registry for bt. When
// nothing is registered the already-framed body is simply discarded: by
// the time this is called, the caller has already validated the
// length/trailer, so there is nothing further to check.
func handleUnknownBlock(bt BlockType, order binary.ByteOrder, body []byte, offset int64) error {
	h, ok := lookupBlockHandler(bt)
	if !ok {
		return nil
	}
	if h.read == nil {
		return nil
	}
	_, _, err := h.read(order, body)
	if err != nil {
		return wrapErr(KindBadFile, offset, "registered block handler rejected body", err)
	}
	return nil
}
