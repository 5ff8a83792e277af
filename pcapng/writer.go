package pcapng

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
)

// WriterOption configures a Writer at construction time.
type WriterOption func(*writerConfig) error

type writerConfig struct {
	order         binary.ByteOrder
	major         uint16
	minor         uint16
	sectionLength int64
	sectionOpts   []Option
	defaultUnits  uint64
	linkTypes     LinkTypeTable
	bufferSize    int
}

// WithWriterByteOrder selects the byte order every block in this
// section is written with.
func WithWriterByteOrder(order binary.ByteOrder) WriterOption {
	return func(cfg *writerConfig) error {
		if order != binary.BigEndian && order != binary.LittleEndian {
			return fmt.Errorf("pcapng: unsupported byte order")
		}
		cfg.order = order
		return nil
	}
}

// WithWriterSectionVersion overrides the SHB major/minor (default 1.0).
func WithWriterSectionVersion(major, minor uint16) WriterOption {
	return func(cfg *writerConfig) error {
		if major != 1 || (minor != 0 && minor != 2) {
			return fmt.Errorf("pcapng: unsupported section version %d.%d", major, minor)
		}
		cfg.major, cfg.minor = major, minor
		return nil
	}
}

// WithWriterSectionLength sets the SHB's declared section length;
// default -1 (unknown), matching most real-world writers.
func WithWriterSectionLength(length int64) WriterOption {
	return func(cfg *writerConfig) error {
		cfg.sectionLength = length
		return nil
	}
}

// WithWriterSectionOption appends an SHB option (comment, hardware, os,
// user_application).
func WithWriterSectionOption(opt Option) WriterOption {
	return func(cfg *writerConfig) error {
		cfg.sectionOpts = append(cfg.sectionOpts, opt)
		return nil
	}
}

// WithWriterDefaultUnitsPerSecond sets the time-units-per-second every
// AddInterface call uses unless it supplies its own.
func WithWriterDefaultUnitsPerSecond(units uint64) WriterOption {
	return func(cfg *writerConfig) error {
		if units == 0 {
			return fmt.Errorf("pcapng: units per second must be positive")
		}
		cfg.defaultUnits = units
		return nil
	}
}

// WithWriterLinkTypeTable overrides the default DLT <-> encapsulation
// table used to validate records written through this Writer.
func WithWriterLinkTypeTable(t LinkTypeTable) WriterOption {
	return func(cfg *writerConfig) error {
		cfg.linkTypes = t
		return nil
	}
}

// WithWriterBuffer enables buffered output to cut down on syscalls.
func WithWriterBuffer(size int) WriterOption {
	return func(cfg *writerConfig) error {
		if size <= 0 {
			return fmt.Errorf("pcapng: buffer size must be positive")
		}
		cfg.bufferSize = size
		return nil
	}
}

// InterfaceOption configures a single AddInterface call.
type InterfaceOption func(*interfaceWriterConfig) error

type interfaceWriterConfig struct {
	options      []Option
	unitsPerSec  uint64
	hasTSOption  bool
	fcsLen       int
	filter       *InterfaceFilter
}

// WithInterfaceOption appends an arbitrary IDB option verbatim.
func WithInterfaceOption(code uint16, value []byte) InterfaceOption {
	return func(cfg *interfaceWriterConfig) error {
		cfg.options = append(cfg.options, Option{Code: code, Value: append([]byte(nil), value...)})
		if code == OptIDBTSResol && len(value) > 0 {
			cfg.hasTSOption = true
			cfg.unitsPerSec = unitsPerSecondFor(value[0])
		}
		return nil
	}
}

// WithInterfaceUnitsPerSecond sets this interface's timestamp
// resolution directly as a time-units-per-second denominator, deriving
// and emitting the matching if_tsresol option (exact for powers of ten
// and powers of two; see tsResolByteFor).
func WithInterfaceUnitsPerSecond(units uint64) InterfaceOption {
	return func(cfg *interfaceWriterConfig) error {
		if units == 0 {
			return fmt.Errorf("pcapng: units per second must be positive")
		}
		cfg.unitsPerSec = units
		return nil
	}
}

// WithInterfaceFCSLen sets the if_fcslen option.
func WithInterfaceFCSLen(n int) InterfaceOption {
	return func(cfg *interfaceWriterConfig) error {
		cfg.fcsLen = n
		return nil
	}
}

// WithInterfaceFilter sets the if_filter option, recording the capture
// filter (libpcap string or BPF program) that was applied to traffic
// on this interface.
func WithInterfaceFilter(f *InterfaceFilter) InterfaceOption {
	return func(cfg *interfaceWriterConfig) error {
		cfg.filter = f
		return nil
	}
}

type interfaceWriterInfo struct {
	linkType    uint16
	encap       Encapsulation
	snapLen     uint32
	unitsPerSec uint64
	precision   Precision
	stats       []InterfaceStats
}

// Writer is the sequential pcapng encoder: a three-pass per-block
// writer (size options, write header, write body+trailer) that mirrors
// deferred Decryption Secrets Blocks ahead of the next packet and
// flushes per-interface statistics at Finish.
type Writer struct {
	w             io.Writer
	buf           *bufio.Writer
	closer        io.Closer
	order         binary.ByteOrder
	linkTypes     LinkTypeTable
	interfaces    []*interfaceWriterInfo
	pendingDSBs   []DecryptionSecretsBlock
	defaultUnits  uint64
}

// NewWriter constructs a Writer and immediately emits the section's
// Section Header Block.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	cfg := writerConfig{
		order:         binary.LittleEndian,
		major:         1,
		minor:         0,
		sectionLength: -1,
		defaultUnits:  1_000_000,
		linkTypes:     DefaultLinkTypes,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	wr := &Writer{
		w:            w,
		order:        cfg.order,
		linkTypes:    cfg.linkTypes,
		defaultUnits: cfg.defaultUnits,
	}
	if closer, ok := w.(io.Closer); ok {
		wr.closer = closer
	}
	if cfg.bufferSize > 0 {
		wr.buf = bufio.NewWriterSize(w, cfg.bufferSize)
		wr.w = wr.buf
	}

	if err := wr.writeSectionHeader(cfg); err != nil {
		return nil, err
	}
	return wr, nil
}

func (w *Writer) writeSectionHeader(cfg writerConfig) error {
	options := encodeOptions(cfg.sectionOpts, w.order)
	bodyLen := 4 + 2 + 2 + 8 + len(options)
	totalLength := uint32(8 + bodyLen + 4)

	buf := make([]byte, 0, totalLength)
	buf = appendUint32(buf, w.order, uint32(BlockTypeSectionHeader))
	buf = appendUint32(buf, w.order, totalLength)

	var magicBytes [4]byte
	binary.LittleEndian.PutUint32(magicBytes[:], byteOrderMagicFor(w.order))
	buf = append(buf, magicBytes[:]...)

	buf = appendUint16(buf, w.order, cfg.major)
	buf = appendUint16(buf, w.order, cfg.minor)

	sectionLength := uint64(0xFFFFFFFFFFFFFFFF)
	if cfg.sectionLength >= 0 {
		sectionLength = uint64(cfg.sectionLength)
	}
	buf = appendUint64(buf, w.order, sectionLength)

	buf = append(buf, options...)
	buf = appendUint32(buf, w.order, totalLength)

	_, err := w.w.Write(buf)
	return err
}

// AddInterface writes an Interface Description Block and returns the
// interface id subsequent WriteRecord/RecordStats calls must use.
func (w *Writer) AddInterface(linkType uint16, snapLen uint32, opts ...InterfaceOption) (uint32, error) {
	cfg := interfaceWriterConfig{unitsPerSec: w.defaultUnits, fcsLen: -1}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return 0, err
		}
	}
	if cfg.unitsPerSec == 0 {
		cfg.unitsPerSec = w.defaultUnits
	}

	options := append([]Option(nil), cfg.options...)
	if !cfg.hasTSOption {
		options = append(options, Option{Code: OptIDBTSResol, Value: []byte{tsResolByteFor(cfg.unitsPerSec)}})
	}
	if cfg.fcsLen >= 0 {
		options = append(options, Option{Code: OptIDBFCSLen, Value: []byte{byte(cfg.fcsLen)}})
	}
	if cfg.filter != nil {
		options = append(options, Option{Code: OptIDBFilter, Value: encodeIfFilter(cfg.filter, w.order)})
	}

	encodedOpts := encodeOptions(options, w.order)
	bodyLen := 2 + 2 + 4 + len(encodedOpts)
	totalLength := uint32(8 + bodyLen + 4)

	buf := make([]byte, 0, totalLength)
	buf = appendUint32(buf, w.order, uint32(BlockTypeInterfaceDescription))
	buf = appendUint32(buf, w.order, totalLength)
	buf = appendUint16(buf, w.order, linkType)
	buf = appendUint16(buf, w.order, 0)
	buf = appendUint32(buf, w.order, snapLen)
	buf = append(buf, encodedOpts...)
	buf = appendUint32(buf, w.order, totalLength)

	if _, err := w.w.Write(buf); err != nil {
		return 0, err
	}

	encap, _ := w.linkTypes.FromDLT(linkType)
	id := uint32(len(w.interfaces))
	w.interfaces = append(w.interfaces, &interfaceWriterInfo{
		linkType:    linkType,
		encap:       encap,
		snapLen:     snapLen,
		unitsPerSec: cfg.unitsPerSec,
		precision:   precisionFor(cfg.unitsPerSec),
	})
	return id, nil
}

// tsResolByteFor picks an if_tsresol byte for unitsPerSecond: a base-10
// exponent for a power of ten, a base-2 exponent for any other power of
// two. Both round-trip exactly. Any other value has no exact encoding
// and is written with a nearby base-10 exponent, so a reader sees a
// different resolution for that interface.
func tsResolByteFor(unitsPerSecond uint64) byte {
	exp := byte(0)
	for v := unitsPerSecond; v > 1; v /= 10 {
		exp++
	}
	if unitsPerSecondFor(exp) != unitsPerSecond && unitsPerSecond&(unitsPerSecond-1) == 0 {
		return 0x80 | byte(bits.TrailingZeros64(unitsPerSecond))
	}
	return exp
}

// MirrorDecryptionSecrets queues a Decryption Secrets Block to be
// emitted ahead of the next WriteRecord call, mirroring secrets
// collected at read time back out before the next packet they cover.
func (w *Writer) MirrorDecryptionSecrets(dsb DecryptionSecretsBlock) {
	w.pendingDSBs = append(w.pendingDSBs, dsb)
}

func (w *Writer) flushPendingDSBs() error {
	for _, dsb := range w.pendingDSBs {
		if err := w.writeDSB(dsb); err != nil {
			return err
		}
	}
	w.pendingDSBs = nil
	return nil
}

func (w *Writer) writeDSB(dsb DecryptionSecretsBlock) error {
	bodyLen := 4 + 4 + align4(len(dsb.Secrets))
	totalLength := uint32(8 + bodyLen + 4)

	buf := make([]byte, 0, totalLength)
	buf = appendUint32(buf, w.order, uint32(BlockTypeDecryptionSecrets))
	buf = appendUint32(buf, w.order, totalLength)
	buf = appendUint32(buf, w.order, dsb.SecretsType)
	buf = appendUint32(buf, w.order, uint32(len(dsb.Secrets)))
	buf = append(buf, dsb.Secrets...)
	buf = append(buf, make([]byte, align4(len(dsb.Secrets))-len(dsb.Secrets))...)
	buf = appendUint32(buf, w.order, totalLength)

	_, err := w.w.Write(buf)
	return err
}

// WriteRecord writes an Enhanced Packet Block for rec. It refuses
// records whose captured size exceeds the maximum snaplen of the target
// interface's encapsulation, and refuses an interface id that does not exist or whose
// recorded encapsulation disagrees with rec's.
func (w *Writer) WriteRecord(rec *Record) error {
	if !rec.HasInterface || int(rec.InterfaceID) >= len(w.interfaces) {
		return newErr(KindUnwritableEncap, -1, "write references a non-existent interface id")
	}
	info := w.interfaces[rec.InterfaceID]
	if info.encap != EncapUnknown && rec.Encapsulation != EncapUnknown && info.encap != rec.Encapsulation {
		return newErr(KindUnwritableEncap, -1, "record encapsulation disagrees with the interface's")
	}
	if max := w.linkTypes.MaxSnaplen(info.encap); rec.CapturedLen > max {
		return newErr(KindPacketTooLarge, -1, "captured length exceeds the encapsulation's maximum snaplen")
	}
	if len(rec.Payload) != int(rec.CapturedLen) {
		return newErr(KindInternal, -1, "payload length disagrees with captured length")
	}

	if err := w.flushPendingDSBs(); err != nil {
		return err
	}

	high, low := rawFromTimestamp(rec.Timestamp.Seconds, rec.Timestamp.Nanoseconds, info.unitsPerSec)

	var opts []Option
	if rec.HasComment {
		opts = append(opts, Option{Code: OptComment, Value: []byte(rec.Comment)})
	}
	if rec.HasFlags {
		opts = append(opts, Option{Code: OptEPBFlags, Value: appendUint32(nil, w.order, rec.Flags)})
	}
	if rec.HasDropCount {
		opts = append(opts, Option{Code: OptEPBDropCount, Value: appendUint64(nil, w.order, rec.DropCount)})
	}
	if rec.HasPacketID {
		opts = append(opts, Option{Code: OptEPBPacketID, Value: appendUint64(nil, w.order, rec.PacketID)})
	}
	if rec.HasQueueID {
		opts = append(opts, Option{Code: OptEPBQueue, Value: appendUint32(nil, w.order, rec.QueueID)})
	}
	for _, v := range rec.Verdicts {
		opts = append(opts, Option{Code: OptEPBVerdict, Value: encodeVerdict(v, w.order)})
	}

	encodedOpts := encodeOptions(opts, w.order)
	padding := align4(int(rec.CapturedLen)) - int(rec.CapturedLen)
	bodyLen := 4 + 4 + 4 + 4 + 4 + int(rec.CapturedLen) + padding + len(encodedOpts)
	totalLength := uint32(8 + bodyLen + 4)

	buf := make([]byte, 0, totalLength)
	buf = appendUint32(buf, w.order, uint32(BlockTypeEnhancedPacket))
	buf = appendUint32(buf, w.order, totalLength)
	buf = appendUint32(buf, w.order, rec.InterfaceID)
	buf = appendUint32(buf, w.order, high)
	buf = appendUint32(buf, w.order, low)
	buf = appendUint32(buf, w.order, rec.CapturedLen)
	buf = appendUint32(buf, w.order, rec.WireLen)
	buf = append(buf, rec.Payload...)
	if padding > 0 {
		buf = append(buf, make([]byte, padding)...)
	}
	buf = append(buf, encodedOpts...)
	buf = appendUint32(buf, w.order, totalLength)

	_, err := w.w.Write(buf)
	return err
}

// RecordStats queues an Interface Statistics Block snapshot for
// interfaceID, flushed in arrival order by Finish.
func (w *Writer) RecordStats(interfaceID uint32, stats InterfaceStats) error {
	if int(interfaceID) >= len(w.interfaces) {
		return newErr(KindUnwritableEncap, -1, "stats reference a non-existent interface id")
	}
	info := w.interfaces[interfaceID]
	info.stats = append(info.stats, stats)
	return nil
}

func (w *Writer) writeISB(interfaceID uint32, stats InterfaceStats, unitsPerSec uint64) error {
	high, low := rawFromTimestamp(stats.Timestamp.Seconds, stats.Timestamp.Nanoseconds, unitsPerSec)

	var opts []Option
	if stats.StartTime != nil {
		h, l := rawFromTimestamp(stats.StartTime.Seconds, stats.StartTime.Nanoseconds, unitsPerSec)
		opts = append(opts, Option{Code: OptISBStartTime, Value: append(appendUint32(nil, w.order, h), appendUint32(nil, w.order, l)...)})
	}
	if stats.EndTime != nil {
		h, l := rawFromTimestamp(stats.EndTime.Seconds, stats.EndTime.Nanoseconds, unitsPerSec)
		opts = append(opts, Option{Code: OptISBEndTime, Value: append(appendUint32(nil, w.order, h), appendUint32(nil, w.order, l)...)})
	}
	if stats.IfRecv != nil {
		opts = append(opts, Option{Code: OptISBIfRecv, Value: appendUint64(nil, w.order, *stats.IfRecv)})
	}
	if stats.IfDrop != nil {
		opts = append(opts, Option{Code: OptISBIfDrop, Value: appendUint64(nil, w.order, *stats.IfDrop)})
	}
	if stats.FilterAccept != nil {
		opts = append(opts, Option{Code: OptISBFilterAccept, Value: appendUint64(nil, w.order, *stats.FilterAccept)})
	}
	if stats.OSDrop != nil {
		opts = append(opts, Option{Code: OptISBOSDrop, Value: appendUint64(nil, w.order, *stats.OSDrop)})
	}
	if stats.UserDeliver != nil {
		opts = append(opts, Option{Code: OptISBUserDeliver, Value: appendUint64(nil, w.order, *stats.UserDeliver)})
	}

	encodedOpts := encodeOptions(opts, w.order)
	bodyLen := 4 + 4 + 4 + len(encodedOpts)
	totalLength := uint32(8 + bodyLen + 4)

	buf := make([]byte, 0, totalLength)
	buf = appendUint32(buf, w.order, uint32(BlockTypeInterfaceStatistics))
	buf = appendUint32(buf, w.order, totalLength)
	buf = appendUint32(buf, w.order, interfaceID)
	buf = appendUint32(buf, w.order, high)
	buf = appendUint32(buf, w.order, low)
	buf = append(buf, encodedOpts...)
	buf = appendUint32(buf, w.order, totalLength)

	_, err := w.w.Write(buf)
	return err
}

// Finish flushes every interface's accumulated statistics blocks, in
// order, then flushes the underlying buffered writer if any.
func (w *Writer) Finish() error {
	for id, info := range w.interfaces {
		for _, stats := range info.stats {
			if err := w.writeISB(uint32(id), stats, info.unitsPerSec); err != nil {
				return err
			}
		}
		info.stats = nil
	}
	if w.buf != nil {
		return w.buf.Flush()
	}
	return nil
}

// Close flushes and releases the underlying writer if it is an
// io.Closer; callers that passed a bare io.Writer own its lifetime.
func (w *Writer) Close() error {
	if w.buf != nil {
		if err := w.buf.Flush(); err != nil {
			return err
		}
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
