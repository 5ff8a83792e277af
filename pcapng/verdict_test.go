package pcapng

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestVerdictFixedShapeSwapsTailOnBigEndian(t *testing.T) {
	raw := append([]byte{VerdictTypeLinuxTC}, []byte{1, 2, 3, 4, 5, 6, 7, 8}...)
	v, err := decodeVerdict(raw, binary.BigEndian)
	if err != nil {
		t.Fatalf("decodeVerdict failed: %v", err)
	}
	want := make([]byte, 8)
	binary.LittleEndian.PutUint64(want, binary.BigEndian.Uint64(raw[1:]))
	if !bytes.Equal(v.Data, want) {
		t.Fatalf("got %x, want %x", v.Data, want)
	}
}

func TestVerdictOpaqueTagPreserved(t *testing.T) {
	raw := []byte{200, 0xDE, 0xAD}
	v, err := decodeVerdict(raw, binary.LittleEndian)
	if err != nil {
		t.Fatalf("decodeVerdict failed: %v", err)
	}
	if v.Type != 200 || !bytes.Equal(v.Data, []byte{0xDE, 0xAD}) {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestVerdictRoundTrip(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		original := Verdict{Type: VerdictTypeLinuxXDP, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
		encoded := encodeVerdict(original, order)
		decoded, err := decodeVerdict(encoded, order)
		if err != nil {
			t.Fatalf("decodeVerdict failed: %v", err)
		}
		if decoded.Type != original.Type || !bytes.Equal(decoded.Data, original.Data) {
			t.Fatalf("round trip mismatch for order %v: got %+v", order, decoded)
		}
	}
}
