package pcapng

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// ExtraBlockReader decodes the body of a registered, non-built-in
// block type. body excludes the 8-byte header and the 4-byte
// trailer. It returns the decoded payload as opaque bytes (callers who
// need structure parse it themselves) plus any trailing options this
// block type carries, or nil if it carries none.
type ExtraBlockReader func(order binary.ByteOrder, body []byte) (payload []byte, options []Option, err error)

// ExtraBlockWriter is the inverse of ExtraBlockReader: given the
// payload and options previously produced, it returns the full block
// body (everything between the 8-byte header and the 4-byte trailer).
type ExtraBlockWriter func(order binary.ByteOrder, payload []byte, options []Option) (body []byte, err error)

type blockHandler struct {
	read  ExtraBlockReader
	write ExtraBlockWriter
}

// OptionParser parses a single option's raw value into whatever typed
// representation a registered handler wants to hand back to callers.
type OptionParser func(order binary.ByteOrder, value []byte) (any, error)

// OptionSizer returns the encoded size (value length, pre-padding) a
// typed option value will occupy.
type OptionSizer func(value any) (int, error)

// OptionWriter serializes a typed option value into its raw TLV value
// bytes (not including the code/length header or padding).
type OptionWriter func(order binary.ByteOrder, value any) ([]byte, error)

type optionHandler struct {
	parse OptionParser
	size  OptionSizer
	write OptionWriter
}

type optionKey struct {
	family BlockFamily
	code   uint16
}

var (
	registryMu     sync.RWMutex
	blockHandlers  = map[BlockType]blockHandler{}
	optionHandlers = map[optionKey]optionHandler{}
)

// builtinBlockTypes are the block types this engine decodes natively;
// registration attempts for these are rejected.
var builtinBlockTypes = map[BlockType]bool{
	BlockTypeSectionHeader:        true,
	BlockTypeInterfaceDescription: true,
	BlockTypePacket:               true,
	BlockTypeSimplePacket:         true,
	BlockTypeNameResolution:       true,
	BlockTypeInterfaceStatistics:  true,
	BlockTypeEnhancedPacket:       true,
	BlockTypeSystemdJournal:       true,
	BlockTypeDecryptionSecrets:    true,
	BlockTypeSysdigEvent:          true,
	BlockTypeSysdigEventV2:        true,
}

// Standardized-but-registerable block types: IRIG timestamp, ARINC-429,
// and Sysdig EVF all have assigned type codes but no built-in decoder.
const (
	BlockTypeIRIGTimestamp BlockType = 0x00000201
	BlockTypeARINC429      BlockType = 0x00000210
	BlockTypeSysdigEVF     BlockType = 0x00000205
)

var registerableStandardBlocks = map[BlockType]bool{
	BlockTypeIRIGTimestamp: true,
	BlockTypeARINC429:      true,
	BlockTypeSysdigEVF:     true,
}

// RegisterBlockType installs a reader/writer pair for a non-built-in
// block type. Only the three standardized types named above and
// "local" types (high bit set) may be registered; attempts to override
// a built-in type are rejected. Call only during process
// initialization, before any Reader or Writer is constructed.
func RegisterBlockType(bt BlockType, read ExtraBlockReader, write ExtraBlockWriter) error {
	if builtinBlockTypes[bt] {
		return fmt.Errorf("pcapng: block type %#08x is built in and cannot be overridden", uint32(bt))
	}
	if !bt.IsLocal() && !registerableStandardBlocks[bt] {
		return fmt.Errorf("pcapng: block type %#08x is not registerable", uint32(bt))
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	blockHandlers[bt] = blockHandler{read: read, write: write}
	return nil
}

func lookupBlockHandler(bt BlockType) (blockHandler, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	h, ok := blockHandlers[bt]
	return h, ok
}

// RegisterOptionHandler installs a parse/size/write trio for
// (family, code). A later registration for the same key silently
// replaces the former one. Call only during process initialization.
func RegisterOptionHandler(family BlockFamily, code uint16, parse OptionParser, size OptionSizer, write OptionWriter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	optionHandlers[optionKey{family, code}] = optionHandler{parse: parse, size: size, write: write}
}

func lookupOptionHandler(family BlockFamily, code uint16) (optionHandler, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	h, ok := optionHandlers[optionKey{family, code}]
	return h, ok
}
