package pcapng

import (
	"encoding/binary"
	"testing"
)

func buildNRBRecord(order binary.ByteOrder, recType uint16, value []byte) []byte {
	var buf []byte
	buf = appendUint16(buf, order, recType)
	buf = appendUint16(buf, order, uint16(len(value)))
	buf = append(buf, value...)
	pad := align4(len(value)) - len(value)
	buf = append(buf, make([]byte, pad)...)
	return buf
}

func TestDecodeNRBUnterminatedNameIsFatal(t *testing.T) {
	order := binary.LittleEndian
	addr := []byte{192, 168, 0, 1}
	name := append([]byte("host"), 0) // intentionally drop the terminator below
	value := append(addr, name[:len(name)-1]...)

	body := buildNRBRecord(order, nrbRecordIPv4, value)
	body = append(body, appendUint16(nil, order, nrbRecordEnd)...)
	body = append(body, appendUint16(nil, order, 0)...)

	err := decodeNRB(body, order, 0, nil, nil)
	if err == nil {
		t.Fatal("expected fatal error for unterminated name")
	}
	if kind, ok := KindOf(err); !ok || kind != KindBadFile {
		t.Fatalf("expected KindBadFile, got %v", err)
	}
}

func TestDecodeNRBInvokesSinks(t *testing.T) {
	order := binary.LittleEndian
	addr := [4]byte{10, 0, 0, 1}
	value := append(append([]byte(nil), addr[:]...), append([]byte("host.example"), 0)...)
	body := buildNRBRecord(order, nrbRecordIPv4, value)
	body = append(body, appendUint16(nil, order, nrbRecordEnd)...)
	body = append(body, appendUint16(nil, order, 0)...)

	var gotAddr [4]byte
	var gotNames []string
	sink := func(addr [4]byte, names []string) {
		gotAddr = addr
		gotNames = names
	}

	if err := decodeNRB(body, order, 0, sink, nil); err != nil {
		t.Fatalf("decodeNRB failed: %v", err)
	}
	if gotAddr != addr {
		t.Fatalf("got addr %v, want %v", gotAddr, addr)
	}
	if len(gotNames) != 1 || gotNames[0] != "host.example" {
		t.Fatalf("got names %v", gotNames)
	}
}
