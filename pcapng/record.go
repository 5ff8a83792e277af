package pcapng

// RecordKind distinguishes the three payload-carrying block families a
// Record can materialize from.
type RecordKind int

const (
	RecordPacket RecordKind = iota
	RecordSyscallEvent
	RecordSystemdJournal
)

// Record is the caller-visible output of a packet/event/journal
// carrying block. Metadata-only blocks (SHB, IDB, NRB, ISB, DSB) are
// consumed internally and never surfaced this way.
type Record struct {
	Kind          RecordKind
	InterfaceID   uint32
	HasInterface  bool
	Timestamp     Timestamp
	HasTimestamp  bool
	CapturedLen   uint32
	WireLen       uint32
	Encapsulation Encapsulation
	Comment       string
	HasComment    bool
	Flags         uint32
	HasFlags      bool
	DropCount     uint64
	HasDropCount  bool
	PacketID      uint64
	HasPacketID   bool
	QueueID       uint32
	HasQueueID    bool
	Verdicts      []Verdict
	Payload       []byte

	// EventType/ThreadID/CPUID are set only for RecordSyscallEvent.
	EventType uint16
	ThreadID  uint64
	CPUID     uint16
	ParamCount uint32
	HasParamCount bool
}
