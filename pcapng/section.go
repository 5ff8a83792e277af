package pcapng

import "encoding/binary"

// Precision is the thresholded resolution bucket derived from an
// interface's time_units_per_second, used by callers that want a
// coarse classification instead of the raw denominator.
type Precision int

const (
	PrecisionSeconds Precision = iota
	PrecisionDeci
	PrecisionCenti
	PrecisionMilli
	PrecisionMicro
	PrecisionNano
)

func precisionFor(unitsPerSecond uint64) Precision {
	switch {
	case unitsPerSecond <= 1:
		return PrecisionSeconds
	case unitsPerSecond <= 10:
		return PrecisionDeci
	case unitsPerSecond <= 100:
		return PrecisionCenti
	case unitsPerSecond <= 1_000:
		return PrecisionMilli
	case unitsPerSecond <= 1_000_000:
		return PrecisionMicro
	default:
		return PrecisionNano
	}
}

// InterfaceDescriptor is the per-interface state accumulated from an
// Interface Description Block: timestamp resolution, link-layer
// encapsulation, snapshot length, and FCS length. Its position in the
// owning Section's Interfaces slice is its interface id.
type InterfaceDescriptor struct {
	LinkType        uint16
	Encapsulation   Encapsulation
	SnapLen         uint32
	TimeUnitsPerSec uint64
	Precision       Precision
	FCSLen          int // -1 = unknown
	Filter          *InterfaceFilter
	Options         []Option
	Stats           []InterfaceStats
}

// InterfaceFilter is the decoded if_filter option.
type InterfaceFilter struct {
	// Kind is 0 (libpcap filter string), 1 (BPF instruction stream), or
	// any other value meaning "opaque, preserved verbatim".
	Kind  byte
	Text  string          // valid when Kind == 0
	BPF   []BPFInstruction // valid when Kind == 1
	Raw   []byte           // always the undecoded value, for round-trip
}

// BPFInstruction mirrors the classic BPF instruction layout (code, jt,
// jf, k) used by the if_filter option's BPF-instruction-stream variant.
type BPFInstruction struct {
	Code uint16
	JT   uint8
	JF   uint8
	K    uint32
}

// InterfaceStats is one Interface Statistics Block's worth of
// snapshot, attached to the interface it references, in arrival order.
type InterfaceStats struct {
	Timestamp     Timestamp
	StartTime     *Timestamp
	EndTime       *Timestamp
	IfRecv        *uint64
	IfDrop        *uint64
	FilterAccept  *uint64
	OSDrop        *uint64
	UserDeliver   *uint64
	Options       []Option
}

// Section is a per-section descriptor: byte order, version, declared
// length, file offset of its SHB, and its own ordered interface table.
// Every section ever seen in a file is retained for random access.
type Section struct {
	Swapped       bool
	MajorVersion  uint16
	MinorVersion  uint16
	Length        int64 // -1 = unknown
	Offset        int64 // file offset of this section's SHB
	Options       []Option
	Interfaces    []*InterfaceDescriptor
	DecryptionSecrets []DecryptionSecretsBlock

	order binary.ByteOrder
}

// ByteOrder returns the binary.ByteOrder in effect for this section.
func (s *Section) ByteOrder() binary.ByteOrder { return s.order }

// DecryptionSecretsBlock is the opaque payload of a Decryption Secrets
// Block, retained so a writer mirroring this file can replay it.
type DecryptionSecretsBlock struct {
	SecretsType uint32
	Secrets     []byte
}

// fileEncapState tracks the file-scope encapsulation/precision
// sentinel: if every interface description agrees, the file advertises
// that value; otherwise it advertises EncapPerPacket, with PrecisionNano
// as the precision.
type fileEncapState struct {
	set           bool
	agreed        bool
	encapsulation Encapsulation
	precision     Precision
}

func (f *fileEncapState) observe(encap Encapsulation, prec Precision) {
	if !f.set {
		f.set = true
		f.agreed = true
		f.encapsulation = encap
		f.precision = prec
		return
	}
	if f.encapsulation != encap || f.precision != prec {
		f.agreed = false
	}
}

// observeJournal applies the narrower agreement rule a systemd-journal
// block gets: it only forces the file-scope encapsulation to the
// per-packet sentinel when nothing has established it yet. A file that
// already has a real encapsulation from its interfaces is left alone.
func (f *fileEncapState) observeJournal() {
	if !f.set {
		f.set = true
		f.agreed = true
		f.encapsulation = EncapPerPacket
		f.precision = PrecisionNano
	}
}
