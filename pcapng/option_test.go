package pcapng

import (
	"encoding/binary"
	"testing"
)

func TestOptionsRoundTrip(t *testing.T) {
	opts := []Option{
		{Code: OptComment, Value: []byte("hello")},
		{Code: OptIDBName, Value: []byte("eth0")},
	}
	encoded := encodeOptions(opts, binary.LittleEndian)
	decoded, err := decodeOptions(encoded, binary.LittleEndian, 0)
	if err != nil {
		t.Fatalf("decodeOptions failed: %v", err)
	}
	if len(decoded) != len(opts) {
		t.Fatalf("got %d options, want %d", len(decoded), len(opts))
	}
	for i := range opts {
		if decoded[i].Code != opts[i].Code || string(decoded[i].Value) != string(opts[i].Value) {
			t.Fatalf("option %d mismatch: got %+v, want %+v", i, decoded[i], opts[i])
		}
	}
}

func TestEncodeOptionsEmpty(t *testing.T) {
	if got := encodeOptions(nil, binary.LittleEndian); got != nil {
		t.Fatalf("expected nil for zero options, got %v", got)
	}
}

func TestDecodeOptionsTruncatedValueIsFatal(t *testing.T) {
	// Declares a length of 8 bytes but provides none.
	raw := []byte{0x01, 0x00, 0x08, 0x00}
	_, err := decodeOptions(raw, binary.LittleEndian, 0)
	if err == nil {
		t.Fatal("expected error for truncated option value")
	}
}

func TestDecodeOptionsTolerantOfShortTrailingSlack(t *testing.T) {
	raw := []byte{0x00, 0x00, 0x00, 0x00, 0x01} // end-of-options plus one stray byte
	decoded, err := decodeOptions(raw, binary.LittleEndian, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected no options, got %v", decoded)
	}
}

func TestAlign4(t *testing.T) {
	cases := map[int]int{0: 0, 1: 4, 2: 4, 3: 4, 4: 4, 5: 8}
	for in, want := range cases {
		if got := align4(in); got != want {
			t.Fatalf("align4(%d) = %d, want %d", in, got, want)
		}
	}
}
