package pcapng

import (
	"encoding/binary"
	"io"
)

// readerState tracks the sequential cursor's life cycle:
// Start -> Probing -> InSection -> AtEOF -> Closed, with a transient
// ReadingBlock while a single NextRecord call is in flight.
type readerState int

const (
	stateStart readerState = iota
	stateProbing
	stateInSection
	stateReadingBlock
	stateAtEOF
	stateClosed
)

// ReaderOption configures a Reader at construction time.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	logger        Logger
	linkTypes     LinkTypeTable
	pseudoHeaders func(Encapsulation) PseudoHeaderCodec
	ipv4Sink      func(addr [4]byte, names []string)
	ipv6Sink      func(addr [16]byte, names []string)
}

// WithLogger supplies the Logger the reader uses for non-fatal
// notices. The only notice emitted is a warning for an interface whose
// declared snaplen exceeds its encapsulation's maximum; ignored unknown
// options, non-zero padding and unpadded declared lengths are tolerated
// without a log message.
func WithLogger(l Logger) ReaderOption {
	return func(c *readerConfig) { c.logger = l }
}

// WithLinkTypeTable overrides the default DLT <-> encapsulation table.
func WithLinkTypeTable(t LinkTypeTable) ReaderOption {
	return func(c *readerConfig) { c.linkTypes = t }
}

// WithIPv4Sink registers a callback invoked for every IPv4 Name
// Resolution Block record decoded.
func WithIPv4Sink(sink func(addr [4]byte, names []string)) ReaderOption {
	return func(c *readerConfig) { c.ipv4Sink = sink }
}

// WithIPv6Sink registers a callback invoked for every IPv6 Name
// Resolution Block record decoded.
func WithIPv6Sink(sink func(addr [16]byte, names []string)) ReaderOption {
	return func(c *readerConfig) { c.ipv6Sink = sink }
}

// Reader is the sequential cursor over a pcapng file: it owns the
// section/interface registry, which it is the only cursor allowed to
// mutate.
type Reader struct {
	br     *byteReader
	state  readerState
	cfg    readerConfig
	sections []*Section
	current  *Section
	encapState fileEncapState
}

// NewReader constructs a Reader without probing the input; the first
// call to NextRecord performs the probe and transitions
// Start -> Probing -> InSection (or fails with ErrNotOurFormat).
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	cfg := readerConfig{
		logger:    NopLogger,
		linkTypes: DefaultLinkTypes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Reader{
		br:    newByteReader(r),
		state: stateStart,
		cfg:   cfg,
	}
}

// Open probes r non-destructively: if the first block is not a
// recognizable Section Header Block, Open returns ErrNotOurFormat and
// leaves r's position unchanged when r is seekable. On success it
// returns a Reader positioned at the start of the section just parsed.
func Open(r io.Reader) (*Reader, error) {
	rd := NewReader(r)
	if err := rd.probe(); err != nil {
		return nil, err
	}
	return rd, nil
}

func (rd *Reader) probe() error {
	rd.state = stateProbing
	startOffset := rd.br.tell()

	hdr, err := rd.br.readOrEOF(8)
	if err != nil {
		rd.rewindProbe(startOffset)
		if err == io.EOF {
			return ErrNotOurFormat
		}
		if _, ok := KindOf(err); ok {
			return ErrNotOurFormat
		}
		return err
	}
	blockType := BlockType(binary.BigEndian.Uint32(hdr[0:4]))
	if blockType != BlockTypeSectionHeader {
		rd.rewindProbe(startOffset)
		return ErrNotOurFormat
	}

	magic, err := rd.br.readOrEOF(4)
	if err != nil {
		rd.rewindProbe(startOffset)
		return ErrNotOurFormat
	}
	order, swapped, ok := resolveByteOrder(magic)
	if !ok {
		rd.rewindProbe(startOffset)
		return ErrNotOurFormat
	}

	totalLength := order.Uint32(hdr[4:8])
	if totalLength < minSHBLength || totalLength > maxBlockLength {
		rd.rewindProbe(startOffset)
		return ErrNotOurFormat
	}

	rest, err := rd.br.readBytes(int(totalLength) - 16)
	if err != nil {
		rd.rewindProbe(startOffset)
		return ErrNotOurFormat
	}
	trailer, err := rd.br.readBytes(4)
	if err != nil {
		rd.rewindProbe(startOffset)
		return ErrNotOurFormat
	}
	if order.Uint32(trailer) != totalLength {
		rd.rewindProbe(startOffset)
		return ErrNotOurFormat
	}

	section, err := decodeSHBBody(totalLength, order, swapped, rest, startOffset, rd.cfg.logger)
	if err != nil {
		rd.rewindProbe(startOffset)
		return ErrNotOurFormat
	}

	rd.sections = append(rd.sections, section)
	rd.current = section
	rd.state = stateInSection
	return nil
}

func (rd *Reader) rewindProbe(startOffset int64) {
	rd.state = stateStart
	if rd.br.canSeek() {
		_ = rd.br.seek(startOffset)
	}
}

// Sections returns every section descriptor seen so far, in file
// order. The slice is owned by the Reader; callers must not mutate it.
func (rd *Reader) Sections() []*Section { return rd.sections }

// CurrentSection returns the section the sequential cursor is
// currently inside, or nil before the first SHB has been parsed.
func (rd *Reader) CurrentSection() *Section { return rd.current }

// FileEncapsulation returns the file-scope encapsulation/precision
// sentinel: the single value every interface (and journal block, if
// any) seen so far agrees on, or EncapPerPacket when they disagree. ok
// is false before anything has been observed.
func (rd *Reader) FileEncapsulation() (encap Encapsulation, precision Precision, ok bool) {
	if !rd.encapState.set {
		return EncapUnknown, PrecisionSeconds, false
	}
	if !rd.encapState.agreed {
		return EncapPerPacket, PrecisionNano, true
	}
	return rd.encapState.encapsulation, rd.encapState.precision, true
}

// Close releases the reader's resources. The underlying io.Reader is
// not closed; callers that passed an io.Closer own its lifetime.
func (rd *Reader) Close() error {
	rd.state = stateClosed
	return nil
}

// decodedBlock is the internal result of dispatching one block: either
// a Record to surface to the caller, or nil when the block was
// metadata consumed internally.
type decodedBlock struct {
	record *Record
}

// NextRecord advances the sequential cursor past blocks until it
// produces a caller-visible Record, or returns io.EOF at end of file.
// A fatal decode error still leaves every record decoded before it
// retrievable from prior calls: the caller simply stops calling
// NextRecord once an error is returned.
func (rd *Reader) NextRecord() (*Record, error) {
	for {
		blk, err := rd.nextBlock()
		if err != nil {
			return nil, err
		}
		if blk.record != nil {
			return blk.record, nil
		}
	}
}

func (rd *Reader) nextBlock() (decodedBlock, error) {
	switch rd.state {
	case stateStart:
		if err := rd.probe(); err != nil {
			return decodedBlock{}, err
		}
	case stateAtEOF, stateClosed:
		return decodedBlock{}, io.EOF
	}

	rd.state = stateReadingBlock
	offset := rd.br.tell()

	hdr, err := rd.br.readOrEOF(8)
	if err != nil {
		if err == io.EOF {
			rd.state = stateAtEOF
			return decodedBlock{}, io.EOF
		}
		return decodedBlock{}, err
	}

	var order binary.ByteOrder = binary.LittleEndian
	if rd.current != nil {
		order = rd.current.order
	}

	rawType := binary.BigEndian.Uint32(hdr[0:4])
	if BlockType(rawType) == BlockTypeSectionHeader {
		return rd.readSectionHeader(hdr, offset)
	}

	blockType := BlockType(order.Uint32(hdr[0:4]))
	totalLength := order.Uint32(hdr[4:8])

	if totalLength < minBlockLength {
		return decodedBlock{}, newBlockErr(KindBadFile, offset, blockType, "block total length below minimum")
	}
	if totalLength > maxBlockLength {
		return decodedBlock{}, newBlockErr(KindBadFile, offset, blockType, "block total length exceeds maximum")
	}

	// Body length tolerates files that omit the trailing pad from the
	// declared total length: round up to 4 when advancing, but the
	// trailer check below still uses the declared length.
	declaredBodyLen := int(totalLength) - 8 - 4 // minus header, minus trailer
	readLen := align4(declaredBodyLen)
	body, err := rd.br.readBytes(readLen)
	if err != nil {
		return decodedBlock{}, err
	}
	body = body[:declaredBodyLen]

	trailer, err := rd.br.readBytes(4)
	if err != nil {
		return decodedBlock{}, err
	}
	if order.Uint32(trailer) != totalLength {
		return decodedBlock{}, newBlockErr(KindBadFile, offset, blockType, "trailing length does not match header")
	}

	return rd.decodeBody(blockType, totalLength, order, body, offset)
}

func (rd *Reader) readSectionHeader(hdr []byte, offset int64) (decodedBlock, error) {
	magic, err := rd.br.readBytes(4)
	if err != nil {
		return decodedBlock{}, err
	}
	order, swapped, ok := resolveByteOrder(magic)
	if !ok {
		return decodedBlock{}, newBlockErr(KindBadFile, offset, BlockTypeSectionHeader, "unrecognized byte-order magic")
	}
	totalLength := order.Uint32(hdr[4:8])
	if totalLength < minSHBLength || totalLength > maxBlockLength {
		return decodedBlock{}, newBlockErr(KindBadFile, offset, BlockTypeSectionHeader, "block total length out of range")
	}
	declaredBodyLen := int(totalLength) - 8 - 4 - 4 // minus header, minus magic already read, minus trailer
	readLen := align4(declaredBodyLen)
	rest, err := rd.br.readBytes(readLen)
	if err != nil {
		return decodedBlock{}, err
	}
	rest = rest[:declaredBodyLen]
	trailer, err := rd.br.readBytes(4)
	if err != nil {
		return decodedBlock{}, err
	}
	if order.Uint32(trailer) != totalLength {
		return decodedBlock{}, newBlockErr(KindBadFile, offset, BlockTypeSectionHeader, "trailing length does not match header")
	}

	section, err := decodeSHBBody(totalLength, order, swapped, rest, offset, rd.cfg.logger)
	if err != nil {
		return decodedBlock{}, err
	}
	rd.sections = append(rd.sections, section)
	rd.current = section
	rd.state = stateInSection
	return decodedBlock{}, nil
}

// decodeBody dispatches an already-framed, already-trailer-verified
// block body to its type-specific decoder.
func (rd *Reader) decodeBody(bt BlockType, totalLength uint32, order binary.ByteOrder, body []byte, offset int64) (decodedBlock, error) {
	if rd.current == nil {
		return decodedBlock{}, newBlockErr(KindBadFile, offset, bt, "block outside any section")
	}

	switch bt {
	case BlockTypeInterfaceDescription:
		ifc, err := decodeIDB(body, order, offset, rd.cfg.linkTypes, rd.cfg.logger)
		if err != nil {
			return decodedBlock{}, err
		}
		rd.current.Interfaces = append(rd.current.Interfaces, ifc)
		rd.encapState.observe(ifc.Encapsulation, ifc.Precision)
		return decodedBlock{}, nil

	case BlockTypePacket, BlockTypeEnhancedPacket:
		rec, err := decodePacketFamily(bt, body, order, rd.current, offset, rd.cfg.linkTypes, rd.cfg.logger)
		if err != nil {
			return decodedBlock{}, err
		}
		return decodedBlock{record: rec}, nil

	case BlockTypeSimplePacket:
		rec, err := decodeSPB(body, order, rd.current, offset)
		if err != nil {
			return decodedBlock{}, err
		}
		return decodedBlock{record: rec}, nil

	case BlockTypeNameResolution:
		err := decodeNRB(body, order, offset, rd.cfg.ipv4Sink, rd.cfg.ipv6Sink)
		if err != nil {
			return decodedBlock{}, err
		}
		return decodedBlock{}, nil

	case BlockTypeInterfaceStatistics:
		err := decodeISB(body, order, rd.current, offset)
		if err != nil {
			return decodedBlock{}, err
		}
		return decodedBlock{}, nil

	case BlockTypeDecryptionSecrets:
		dsb, err := decodeDSB(body, order, offset)
		if err != nil {
			return decodedBlock{}, err
		}
		rd.current.DecryptionSecrets = append(rd.current.DecryptionSecrets, dsb)
		return decodedBlock{}, nil

	case BlockTypeSysdigEvent, BlockTypeSysdigEventV2:
		rec, err := decodeSysdigEvent(bt, body, order, offset)
		if err != nil {
			return decodedBlock{}, err
		}
		return decodedBlock{record: rec}, nil

	case BlockTypeSystemdJournal:
		rec := decodeSystemdJournal(body)
		rd.encapState.observeJournal()
		return decodedBlock{record: rec}, nil

	default:
		if err := handleUnknownBlock(bt, order, body, offset); err != nil {
			return decodedBlock{}, err
		}
		return decodedBlock{}, nil
	}
}
