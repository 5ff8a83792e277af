package pcapng

import "encoding/binary"

// sysdigV1HeaderLen/sysdigV2HeaderLen are the fixed header sizes ahead
// of the opaque event payload: CPU id (16) + wall-clock ns (64) +
// thread id (64) + event length (32) + event type (16), and, for v2
// only, a trailing param count (32).
const (
	sysdigV1HeaderLen = 2 + 8 + 8 + 4 + 2
	sysdigV2HeaderLen = sysdigV1HeaderLen + 4
)

// decodeSysdigEvent parses a Sysdig event block, either v1 or v2. The
// event payload is preserved verbatim; its own internal byte order is
// recovered from the section's, not reinterpreted here.
func decodeSysdigEvent(bt BlockType, body []byte, order binary.ByteOrder, offset int64) (*Record, error) {
	headerLen := sysdigV1HeaderLen
	if bt == BlockTypeSysdigEventV2 {
		headerLen = sysdigV2HeaderLen
	}
	if len(body) < headerLen {
		return nil, newBlockErr(KindShortRead, offset, bt, "sysdig event block body truncated")
	}

	cpuID := order.Uint16(body[0:2])
	tsNanos := order.Uint64(body[2:10])
	threadID := order.Uint64(body[10:18])
	eventLen := order.Uint32(body[18:22])
	eventType := order.Uint16(body[22:24])

	rec := &Record{
		Kind:      RecordSyscallEvent,
		CPUID:     cpuID,
		ThreadID:  threadID,
		EventType: eventType,
		Encapsulation: EncapSyscallEvent,
		Timestamp: Timestamp{
			Seconds:     int64(tsNanos / 1_000_000_000),
			Nanoseconds: int64(tsNanos % 1_000_000_000),
			Precision:   PrecisionNano,
		},
		HasTimestamp: true,
		WireLen:      eventLen,
		CapturedLen:  uint32(len(body) - headerLen),
	}

	rest := body[24:]
	if bt == BlockTypeSysdigEventV2 {
		paramCount := order.Uint32(rest[0:4])
		rec.ParamCount, rec.HasParamCount = paramCount, true
		rest = rest[4:]
	}
	rec.Payload = append([]byte(nil), rest...)

	return rec, nil
}
