package pcapng

import (
	"strconv"
	"strings"
)

const systemdRealtimeTimestampKey = "__REALTIME_TIMESTAMP="

// decodeSystemdJournal parses a systemd-journal-export block: a text
// stream of journal export entries, padded to 4 bytes with trailing
// zero bytes that are trimmed before any further processing. The
// timestamp, when present, is recovered by a substring search rather
// than full journal-export parsing, since this engine has no journal
// consumer, only enough structure to produce a Record.
func decodeSystemdJournal(body []byte) *Record {
	text := strings.TrimRight(string(body), "\x00")

	rec := &Record{
		Kind:          RecordSystemdJournal,
		Encapsulation: EncapSystemdJournal,
		CapturedLen:   uint32(len(text)),
		WireLen:       uint32(len(text)),
		Payload:       []byte(text),
	}

	if idx := strings.Index(text, systemdRealtimeTimestampKey); idx != -1 {
		rest := text[idx+len(systemdRealtimeTimestampKey):]
		if nl := strings.IndexByte(rest, '\n'); nl != -1 {
			rest = rest[:nl]
		}
		if micros, err := strconv.ParseUint(rest, 10, 64); err == nil {
			rec.Timestamp = Timestamp{
				Seconds:     int64(micros / 1_000_000),
				Nanoseconds: int64((micros % 1_000_000) * 1_000),
				Precision:   PrecisionMicro,
			}
			rec.HasTimestamp = true
		}
	}

	return rec
}
