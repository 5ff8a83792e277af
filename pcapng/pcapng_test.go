package pcapng

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

func TestReadWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	ifaceID, err := w.AddInterface(1, 65535)
	if err != nil {
		t.Fatalf("AddInterface failed: %v", err)
	}

	payload1 := []byte{0x01, 0x02, 0x03, 0x04}
	payload2 := []byte{0xAA, 0xBB, 0xCC}

	rec1 := &Record{
		Kind: RecordPacket, InterfaceID: ifaceID, HasInterface: true,
		Timestamp: Timestamp{Seconds: 1_710_000_000, Nanoseconds: 123_000},
		CapturedLen: uint32(len(payload1)), WireLen: uint32(len(payload1)),
		Encapsulation: EncapEthernet, Payload: payload1,
	}
	rec2 := &Record{
		Kind: RecordPacket, InterfaceID: ifaceID, HasInterface: true,
		Timestamp: Timestamp{Seconds: 1_710_000_003, Nanoseconds: 0},
		CapturedLen: uint32(len(payload2)), WireLen: uint32(len(payload2)),
		Encapsulation: EncapEthernet, Payload: payload2,
	}

	if err := w.WriteRecord(rec1); err != nil {
		t.Fatalf("WriteRecord 1 failed: %v", err)
	}
	if err := w.WriteRecord(rec2); err != nil {
		t.Fatalf("WriteRecord 2 failed: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	rd, err := Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	got1, err := rd.NextRecord()
	if err != nil {
		t.Fatalf("NextRecord 1 failed: %v", err)
	}
	if got1.Timestamp.Seconds != rec1.Timestamp.Seconds || !bytes.Equal(got1.Payload, payload1) {
		t.Fatalf("record 1 mismatch: %+v", got1)
	}

	got2, err := rd.NextRecord()
	if err != nil {
		t.Fatalf("NextRecord 2 failed: %v", err)
	}
	if !bytes.Equal(got2.Payload, payload2) {
		t.Fatalf("record 2 payload mismatch: %x", got2.Payload)
	}

	if _, err := rd.NextRecord(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestByteOrderSymmetry(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, WithWriterByteOrder(order))
		if err != nil {
			t.Fatalf("NewWriter failed: %v", err)
		}
		ifaceID, err := w.AddInterface(1, 65535)
		if err != nil {
			t.Fatalf("AddInterface failed: %v", err)
		}
		payload := []byte{0x10, 0x20, 0x30}
		rec := &Record{
			Kind: RecordPacket, InterfaceID: ifaceID, HasInterface: true,
			CapturedLen: uint32(len(payload)), WireLen: uint32(len(payload)),
			Encapsulation: EncapEthernet, Payload: payload,
		}
		if err := w.WriteRecord(rec); err != nil {
			t.Fatalf("WriteRecord failed: %v", err)
		}
		if err := w.Finish(); err != nil {
			t.Fatalf("Finish failed: %v", err)
		}

		rd, err := Open(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("Open failed for order %v: %v", order, err)
		}
		got, err := rd.NextRecord()
		if err != nil {
			t.Fatalf("NextRecord failed for order %v: %v", order, err)
		}
		if !bytes.Equal(got.Payload, payload) {
			t.Fatalf("payload mismatch for order %v: %x", order, got.Payload)
		}
	}
}

func TestInterfaceIDOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if _, err := w.AddInterface(1, 65535); err != nil {
		t.Fatalf("AddInterface failed: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	// Hand-craft an EPB referencing interface id 5 in a section with
	// only one interface, bypassing the writer's own validation.
	var blockBuf bytes.Buffer
	appendU32 := func(b *bytes.Buffer, v uint32) {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], v)
		b.Write(tmp[:])
	}
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	bodyLen := 4 + 4 + 4 + 4 + 4 + len(payload)
	totalLength := uint32(8 + bodyLen + 4)
	appendU32(&blockBuf, uint32(BlockTypeEnhancedPacket))
	appendU32(&blockBuf, totalLength)
	appendU32(&blockBuf, 5) // out-of-range interface id
	appendU32(&blockBuf, 0)
	appendU32(&blockBuf, 0)
	appendU32(&blockBuf, uint32(len(payload)))
	appendU32(&blockBuf, uint32(len(payload)))
	blockBuf.Write(payload)
	appendU32(&blockBuf, totalLength)

	full := append(append([]byte(nil), buf.Bytes()...), blockBuf.Bytes()...)

	rd, err := Open(bytes.NewReader(full))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := rd.NextRecord(); err == nil {
		t.Fatal("expected interface-id-out-of-range error, got nil")
	} else if kind, ok := KindOf(err); !ok || kind != KindBadFile {
		t.Fatalf("expected KindBadFile, got %v", err)
	}
}

func TestProbeNonDestructive(t *testing.T) {
	notPcapng := bytes.NewReader([]byte("not a pcapng file at all, just plain text"))
	_, err := Open(notPcapng)
	if err == nil {
		t.Fatal("expected ErrNotOurFormat, got nil")
	}
	if kind, ok := KindOf(err); !ok || kind != KindNotOurFormat {
		t.Fatalf("expected KindNotOurFormat, got %v", err)
	}
	pos, posErr := notPcapng.Seek(0, io.SeekCurrent)
	if posErr != nil {
		t.Fatalf("Seek failed: %v", posErr)
	}
	if pos != 0 {
		t.Fatalf("probe mutated reader position: %d", pos)
	}
}
