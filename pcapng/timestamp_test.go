package pcapng

import "testing"

func TestTimestampFromRawMicrosecond(t *testing.T) {
	raw := rawTimestamp(0x0005D4AE, 0x91234567)
	secs, nanos := timestampFromRaw(raw, 1_000_000)
	wantSecs := int64(raw / 1_000_000)
	wantNanos := int64((raw % 1_000_000) * 1_000)
	if secs != wantSecs || nanos != wantNanos {
		t.Fatalf("got (%d, %d), want (%d, %d)", secs, nanos, wantSecs, wantNanos)
	}
}

func TestUnitsPerSecondForBaseTen(t *testing.T) {
	// if_tsresol = 9 (high bit clear, exponent 9): base 10 ^ 9.
	units := unitsPerSecondFor(9)
	if units != 1_000_000_000 {
		t.Fatalf("got %d, want 1_000_000_000", units)
	}
}

func TestUnitsPerSecondForBaseTwo(t *testing.T) {
	// if_tsresol = 0x86 (high bit set, exponent 6): base 2 ^ 6 = 64.
	units := unitsPerSecondFor(0x86)
	if units != 64 {
		t.Fatalf("got %d, want 64", units)
	}
}

func TestTimestampRoundTripAcrossPrecisions(t *testing.T) {
	for _, units := range []uint64{1, 10, 100, 1_000, 10_000, 1_000_000, 1_000_000_000} {
		secs := int64(1_700_000_000)
		nanos := int64(0)
		if units > 1 {
			nanos = int64(1_000_000_000 / units)
		}
		high, low := rawFromTimestamp(secs, nanos, units)
		gotSecs, gotNanos := timestampFromRaw(rawTimestamp(high, low), units)
		if gotSecs != secs {
			t.Fatalf("units=%d: seconds mismatch: got %d want %d", units, gotSecs, secs)
		}
		if gotNanos != nanos {
			t.Fatalf("units=%d: nanoseconds mismatch: got %d want %d", units, gotNanos, nanos)
		}
	}
}

func TestPrecisionFor(t *testing.T) {
	cases := map[uint64]Precision{
		1:           PrecisionSeconds,
		10:          PrecisionDeci,
		100:         PrecisionCenti,
		1_000:       PrecisionMilli,
		1_000_000:   PrecisionMicro,
		1_000_000_000: PrecisionNano,
	}
	for units, want := range cases {
		if got := precisionFor(units); got != want {
			t.Fatalf("units=%d: got %v, want %v", units, got, want)
		}
	}
}
