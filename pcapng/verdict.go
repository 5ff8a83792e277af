package pcapng

import "encoding/binary"

// Verdict is the EPB epb_verdict option's tagged union: a 1-byte type
// tag followed by tag-dependent payload. Tags 1 (Linux eBPF TC) and 2
// (Linux eBPF XDP) are fixed 9-byte records whose 8-byte tail is
// byte-swapped when the section is swapped; tag 0 (hardware) is opaque;
// any tag greater than 2 is preserved as opaque bytes rather than
// dropped, since a future verdict type should still survive a
// read/write round trip unmodified.
type Verdict struct {
	Type byte
	Data []byte
}

const (
	VerdictTypeHardware byte = 0
	VerdictTypeLinuxTC  byte = 1
	VerdictTypeLinuxXDP byte = 2
)

// decodeVerdict validates and, for the two fixed-shape tags, applies
// the section's byte-swap to the 8-byte tail.
func decodeVerdict(raw []byte, order binary.ByteOrder) (Verdict, error) {
	if len(raw) < 1 {
		return Verdict{}, newErr(KindBadFile, -1, "verdict option shorter than 1 byte")
	}
	tag := raw[0]
	data := append([]byte(nil), raw[1:]...)

	switch tag {
	case VerdictTypeLinuxTC, VerdictTypeLinuxXDP:
		if len(data) != 8 {
			return Verdict{}, newErr(KindBadFile, -1, "fixed-shape verdict payload must be 8 bytes")
		}
		if order == binary.BigEndian {
			swapped := make([]byte, 8)
			binary.LittleEndian.PutUint64(swapped, order.Uint64(data))
			data = swapped
		}
	}
	return Verdict{Type: tag, Data: data}, nil
}

// encodeVerdict is the writer-side inverse of decodeVerdict.
func encodeVerdict(v Verdict, order binary.ByteOrder) []byte {
	out := make([]byte, 0, 1+len(v.Data))
	out = append(out, v.Type)
	data := v.Data
	switch v.Type {
	case VerdictTypeLinuxTC, VerdictTypeLinuxXDP:
		if len(data) == 8 && order == binary.BigEndian {
			tmp := make([]byte, 8)
			order.PutUint64(tmp, binary.LittleEndian.Uint64(data))
			data = tmp
		}
	}
	return append(out, data...)
}
