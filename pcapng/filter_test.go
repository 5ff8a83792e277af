package pcapng

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestDecodeIfFilterLibpcapString(t *testing.T) {
	raw := append([]byte{filterKindLibpcapString}, []byte("tcp port 80")...)
	f := decodeIfFilter(raw, binary.LittleEndian)
	if f.Kind != filterKindLibpcapString || f.Text != "tcp port 80" {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestIfFilterBPFRoundTrip(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		original := &InterfaceFilter{
			Kind: filterKindBPFProgram,
			BPF: []BPFInstruction{
				{Code: 0x06, JT: 0, JF: 0, K: 0xFFFFFFFF},
				{Code: 0x16, JT: 0, JF: 0, K: 0},
			},
		}
		encoded := encodeIfFilter(original, order)
		decoded := decodeIfFilter(encoded, order)
		if decoded.Kind != filterKindBPFProgram {
			t.Fatalf("order %v: expected BPF kind, got %d", order, decoded.Kind)
		}
		if len(decoded.BPF) != len(original.BPF) {
			t.Fatalf("order %v: got %d instructions, want %d", order, len(decoded.BPF), len(original.BPF))
		}
		for i := range original.BPF {
			if decoded.BPF[i] != original.BPF[i] {
				t.Fatalf("order %v: instruction %d mismatch: got %+v, want %+v", order, i, decoded.BPF[i], original.BPF[i])
			}
		}
	}
}

func TestIfFilterOpaqueMismatchedLength(t *testing.T) {
	raw := []byte{filterKindBPFProgram, 0x01, 0x02, 0x03} // 3 trailing bytes, not a multiple of 8
	f := decodeIfFilter(raw, binary.LittleEndian)
	if f.Kind != filterKindBPFProgram || len(f.BPF) != 0 {
		t.Fatalf("expected opaque fallback, got %+v", f)
	}
	if !bytes.Equal(f.Raw, raw) {
		t.Fatalf("raw bytes not preserved: %x", f.Raw)
	}
}

func TestRawInstructionsConversion(t *testing.T) {
	f := &InterfaceFilter{Kind: filterKindBPFProgram, BPF: []BPFInstruction{{Code: 6, K: 0xFFFFFFFF}}}
	insns := f.RawInstructions()
	if len(insns) != 1 || insns[0].Op != 6 || insns[0].K != 0xFFFFFFFF {
		t.Fatalf("unexpected conversion: %+v", insns)
	}
}
