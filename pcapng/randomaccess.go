package pcapng

import (
	"io"
)

// RandomAccessReader is a seek-based cursor: it shares the
// section/interface registry a Reader built while scanning
// sequentially, but never mutates it, and never touches the Reader's
// own position. Every read starts with an explicit seek (here, an
// io.ReaderAt offset) and re-reads the block header at that offset
// from scratch.
type RandomAccessReader struct {
	ra        io.ReaderAt
	sections  func() []*Section
	linkTypes LinkTypeTable
}

// NewRandomAccessReader builds a random-access cursor over ra, sharing
// rd's section/interface registry. rd should already have scanned far
// enough sequentially to have seen every section/interface the caller
// intends to look up by offset; this cursor takes a live snapshot via
// rd.Sections() on every call rather than a one-time copy, so it
// reflects whatever the sequential cursor has seen by the time of the
// call.
func NewRandomAccessReader(ra io.ReaderAt, rd *Reader) *RandomAccessReader {
	linkTypes := rd.cfg.linkTypes
	if linkTypes == nil {
		linkTypes = DefaultLinkTypes
	}
	return &RandomAccessReader{ra: ra, sections: rd.Sections, linkTypes: linkTypes}
}

// locateSection finds the section containing offset by scanning the
// shared sections list backward for the last section whose own offset
// is at or before it.
func (rr *RandomAccessReader) locateSection(offset int64) (*Section, error) {
	sections := rr.sections()
	for i := len(sections) - 1; i >= 0; i-- {
		if sections[i].Offset <= offset {
			return sections[i], nil
		}
	}
	return nil, newErr(KindBadFile, offset, "no section covers this offset")
}

// ReadRecordAt seeks to offset, re-reads the block header found there,
// and decodes it as a single record-bearing block (Packet, Enhanced
// Packet, Simple Packet, or a Sysdig/systemd-journal event). Metadata
// blocks (SHB, IDB, NRB, ISB, DSB) are not valid random-access targets,
// since they carry no single caller-visible Record.
func (rr *RandomAccessReader) ReadRecordAt(offset int64) (*Record, error) {
	section, err := rr.locateSection(offset)
	if err != nil {
		return nil, err
	}
	order := section.order

	hdr := make([]byte, 8)
	if _, err := rr.ra.ReadAt(hdr, offset); err != nil {
		return nil, wrapErr(KindShortRead, offset, "short read of block header", err)
	}

	blockType := BlockType(order.Uint32(hdr[0:4]))
	totalLength := order.Uint32(hdr[4:8])
	if totalLength < minBlockLength || totalLength > maxBlockLength {
		return nil, newBlockErr(KindBadFile, offset, blockType, "block total length out of range")
	}

	full := make([]byte, totalLength)
	if _, err := rr.ra.ReadAt(full, offset); err != nil {
		return nil, wrapErr(KindShortRead, offset, "short read of block body", err)
	}
	if order.Uint32(full[len(full)-4:]) != totalLength {
		return nil, newBlockErr(KindBadFile, offset, blockType, "trailing length does not match header")
	}
	body := full[8 : len(full)-4]

	switch blockType {
	case BlockTypePacket, BlockTypeEnhancedPacket:
		return decodePacketFamily(blockType, body, order, section, offset, rr.linkTypes, NopLogger)
	case BlockTypeSimplePacket:
		return decodeSPB(body, order, section, offset)
	case BlockTypeSysdigEvent, BlockTypeSysdigEventV2:
		return decodeSysdigEvent(blockType, body, order, offset)
	case BlockTypeSystemdJournal:
		return decodeSystemdJournal(body), nil
	default:
		return nil, newBlockErr(KindBadFile, offset, blockType, "offset does not name a record-bearing block")
	}
}
