// Package pcapng implements a reader and writer for the Pcap Next
// Generation capture file format: a stream of self-delimiting,
// type-tagged blocks carrying section/interface metadata and packet,
// kernel-event, or journal-log payloads.
package pcapng

// BlockType identifies the kind of a pcapng block. Values are the
// standardized 32-bit block type codes; the high bit marks a "local"
// type reserved for caller use.
type BlockType uint32

const (
	BlockTypeSectionHeader        BlockType = 0x0A0D0D0A
	BlockTypeInterfaceDescription BlockType = 0x00000001
	BlockTypePacket               BlockType = 0x00000002 // obsolete
	BlockTypeSimplePacket         BlockType = 0x00000003
	BlockTypeNameResolution       BlockType = 0x00000004
	BlockTypeInterfaceStatistics  BlockType = 0x00000005
	BlockTypeEnhancedPacket       BlockType = 0x00000006
	BlockTypeSystemdJournal       BlockType = 0x00000009
	BlockTypeDecryptionSecrets    BlockType = 0x0000000A
	BlockTypeSysdigEvent          BlockType = 0x00000204
	BlockTypeSysdigEventV2        BlockType = 0x00000208

	// blockTypeLocalMask marks a caller-reserved type code; never a
	// standardized meaning.
	blockTypeLocalMask BlockType = 0x80000000
)

// IsLocal reports whether t has the high bit set, reserving it for
// caller-defined use rather than a standardized meaning.
func (t BlockType) IsLocal() bool {
	return t&blockTypeLocalMask != 0
}

const (
	byteOrderMagicNative  uint32 = 0x1A2B3C4D
	byteOrderMagicSwapped uint32 = 0x4D3C2B1A
)

// minBlockLength is the smallest legal total_length: an 8-byte header
// plus a 4-byte trailer, with no body.
const minBlockLength = 12

// maxBlockLength bounds a single block: a maximal single packet
// (2^32-1 snaplen is unrealistic, so the cap tracks the largest
// jumbo-frame-plus-128KiB-of-options case seen in practice).
const maxBlockLength = 16*1024*1024 + 128*1024

// minSHBLength is the smallest legal Section Header Block: an 8-byte
// header, the 4-byte byte-order magic, 2+2 bytes of version, 8 bytes
// of section length, and the 4-byte trailer, with no options.
const minSHBLength = 28

// BlockHeader is the common 8-byte prefix shared by every block.
type BlockHeader struct {
	Type        BlockType
	TotalLength uint32
}

// Option is a single TLV option: a 16-bit code, a value, and the
// padding implied by its length is never stored (recomputed on write).
type Option struct {
	Code  uint16
	Value []byte
}

// OptEndOfOpts terminates an option list; it is never returned to
// callers as a decoded Option.
const OptEndOfOpts uint16 = 0

// Standardized option codes shared by every block ("comment" is the
// only one every block family recognizes).
const (
	OptComment uint16 = 1
)

// Section Header Block option codes.
const (
	OptSHBHardware       uint16 = 2
	OptSHBOS             uint16 = 3
	OptSHBUserApplication uint16 = 4
)

// Interface Description Block option codes.
const (
	OptIDBName        uint16 = 2
	OptIDBDescription  uint16 = 3
	OptIDBIPv4Addr    uint16 = 4
	OptIDBIPv6Addr    uint16 = 5
	OptIDBMACAddr     uint16 = 6
	OptIDBEUIAddr     uint16 = 7
	OptIDBSpeed       uint16 = 8
	OptIDBTSResol     uint16 = 9
	OptIDBTZone       uint16 = 10
	OptIDBFilter      uint16 = 11
	OptIDBOS          uint16 = 12
	OptIDBFCSLen      uint16 = 13
	OptIDBTSOffset    uint16 = 14
	OptIDBHardware    uint16 = 15
)

// Enhanced Packet Block option codes.
const (
	OptEPBFlags     uint16 = 2
	OptEPBHash      uint16 = 3
	OptEPBDropCount uint16 = 4
	OptEPBPacketID  uint16 = 5
	OptEPBQueue     uint16 = 6
	OptEPBVerdict   uint16 = 7
)

// Interface Statistics Block option codes.
const (
	OptISBStartTime    uint16 = 2
	OptISBEndTime      uint16 = 3
	OptISBIfRecv       uint16 = 4
	OptISBIfDrop       uint16 = 5
	OptISBFilterAccept uint16 = 6
	OptISBOSDrop       uint16 = 7
	OptISBUserDeliver  uint16 = 8
)

// Name Resolution Block option codes.
const (
	OptNRBDNSName    uint16 = 2
	OptNRBDNSIPv4    uint16 = 3
	OptNRBDNSIPv6    uint16 = 4
)

// NRB record types.
const (
	nrbRecordEnd  uint16 = 0
	nrbRecordIPv4 uint16 = 1
	nrbRecordIPv6 uint16 = 2
)
