package pcapng

import (
	"bytes"
	"io"
	"testing"

	"golang.org/x/net/bpf"
)

func TestFilterReaderCopyTo(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	ifaceID, err := w.AddInterface(1, 64)
	if err != nil {
		t.Fatalf("AddInterface failed: %v", err)
	}
	pkt1 := []byte{0x41}
	pkt2 := []byte{0x42}
	if err := w.WriteRecord(&Record{
		Kind: RecordPacket, InterfaceID: ifaceID, HasInterface: true,
		CapturedLen: uint32(len(pkt1)), WireLen: uint32(len(pkt1)),
		Encapsulation: EncapEthernet, Payload: pkt1,
	}); err != nil {
		t.Fatalf("WriteRecord 1 failed: %v", err)
	}
	if err := w.WriteRecord(&Record{
		Kind: RecordPacket, InterfaceID: ifaceID, HasInterface: true,
		CapturedLen: uint32(len(pkt2)), WireLen: uint32(len(pkt2)),
		Encapsulation: EncapEthernet, Payload: pkt2,
	}); err != nil {
		t.Fatalf("WriteRecord 2 failed: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	rd, err := Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	prog := []bpf.Instruction{
		bpf.LoadAbsolute{Off: 0, Size: 1},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x41, SkipTrue: 0, SkipFalse: 1},
		bpf.RetConstant{Val: 0xffff},
		bpf.RetConstant{Val: 0},
	}

	fr, err := NewFilterReader(rd, prog)
	if err != nil {
		t.Fatalf("NewFilterReader failed: %v", err)
	}

	var out bytes.Buffer
	ow, err := NewWriter(&out)
	if err != nil {
		t.Fatalf("NewWriter (output) failed: %v", err)
	}

	n, err := fr.CopyTo(ow)
	if err != nil {
		t.Fatalf("CopyTo failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 packet kept, got %d", n)
	}
	if err := ow.Finish(); err != nil {
		t.Fatalf("Finish (output) failed: %v", err)
	}

	outRd, err := Open(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("Open (output) failed: %v", err)
	}
	got, err := outRd.NextRecord()
	if err != nil {
		t.Fatalf("NextRecord failed: %v", err)
	}
	if !bytes.Equal(got.Payload, pkt1) {
		t.Fatalf("unexpected kept payload: %x", got.Payload)
	}
	if _, err := outRd.NextRecord(); err != io.EOF {
		t.Fatalf("expected EOF after the one kept packet, got %v", err)
	}
}

func TestInterfaceFilterInstructionsRoundTrip(t *testing.T) {
	f := &InterfaceFilter{
		Kind: filterKindBPFProgram,
		BPF: []BPFInstruction{
			{Code: 0x06, JT: 0, JF: 0, K: 0xffff},
		},
	}
	insns := f.Instructions()
	if len(insns) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(insns))
	}
	if _, err := bpf.NewVM(insns); err != nil {
		t.Fatalf("bpf.NewVM rejected converted instructions: %v", err)
	}
}
