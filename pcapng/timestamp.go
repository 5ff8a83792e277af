package pcapng

import "math/bits"

// Timestamp is the caller-visible wall-clock time of a record: seconds
// since the Unix epoch plus a nanosecond remainder, alongside the
// precision bucket of the interface that produced it.
type Timestamp struct {
	Seconds     int64
	Nanoseconds int64
	Precision   Precision
}

// rawTimestamp combines the high/low 32-bit halves pcapng splits every
// 64-bit timestamp into.
func rawTimestamp(high, low uint32) uint64 {
	return uint64(high)<<32 | uint64(low)
}

// timestampFromRaw converts a raw 64-bit timestamp to seconds+
// nanoseconds given the owning interface's time_units_per_second. The
// division and multiplication are staged separately, and the remainder
// is scaled to nanoseconds with a 128-bit product, so that an
// interface with a huge but non-power-of-ten unitsPerSecond cannot
// overflow the uint64 multiplication the way a naive `t * 1e9 / u`
// would.
func timestampFromRaw(t, unitsPerSecond uint64) (secs, nanos int64) {
	if unitsPerSecond == 0 {
		unitsPerSecond = 1_000_000
	}
	wholeSecs := t / unitsPerSecond
	remainder := t % unitsPerSecond
	hi, lo := bits.Mul64(remainder, 1_000_000_000)
	q, _ := bits.Div64(hi, lo, unitsPerSecond)
	nanos = int64(q)
	return int64(wholeSecs), nanos
}

// rawFromTimestamp is the writer-side inverse: given seconds+
// nanoseconds and the target unitsPerSecond, produce the 64-bit raw
// value split into high/low halves.
func rawFromTimestamp(secs, nanos int64, unitsPerSecond uint64) (high, low uint32) {
	if unitsPerSecond == 0 {
		unitsPerSecond = 1_000_000
	}
	whole := uint64(secs) * unitsPerSecond
	frac := (uint64(nanos) * unitsPerSecond) / 1_000_000_000
	raw := whole + frac
	return uint32(raw >> 32), uint32(raw & 0xffffffff)
}

// unitsPerSecondFor decodes the if_tsresol option byte into a
// time-units-per-second denominator: high bit selects base 2 or 10,
// low 7 bits are the exponent, clamped when it would overflow a
// uint64.
func unitsPerSecondFor(raw byte) uint64 {
	base := uint64(10)
	exp := int(raw)
	if raw&0x80 != 0 {
		base = 2
		exp = int(raw & 0x7f)
	}
	const maxExp = 19 // base^19 still fits comfortably in uint64 for base 10; clamp below for base 2
	if base == 2 && exp > 63 {
		exp = 63
	}
	if base == 10 && exp > maxExp {
		exp = maxExp
	}
	result := uint64(1)
	for i := 0; i < exp; i++ {
		next := result * base
		if next < result { // overflow guard
			break
		}
		result = next
	}
	return result
}
