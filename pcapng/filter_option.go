package pcapng

import (
	"encoding/binary"

	"golang.org/x/net/bpf"
)

const (
	filterKindLibpcapString byte = 0
	filterKindBPFProgram    byte = 1
)

// decodeIfFilter parses the if_filter option value: first byte 0
// selects a libpcap filter string (the remainder is UTF-8, no
// terminator); 1 selects a BPF instruction stream, each instruction 8
// bytes (code, jt, jf, k), with code and k byte-swapped when the
// section is swapped. Any other shape, or a length not matching the
// selected kind, is preserved as opaque raw bytes rather than
// rejected.
func decodeIfFilter(raw []byte, order binary.ByteOrder) *InterfaceFilter {
	f := &InterfaceFilter{Raw: append([]byte(nil), raw...)}
	if len(raw) == 0 {
		return f
	}
	f.Kind = raw[0]
	body := raw[1:]

	switch f.Kind {
	case filterKindLibpcapString:
		f.Text = string(body)
	case filterKindBPFProgram:
		if len(body)%8 != 0 {
			return f // opaque: length doesn't match the instruction shape
		}
		n := len(body) / 8
		insns := make([]BPFInstruction, n)
		for i := 0; i < n; i++ {
			chunk := body[i*8 : i*8+8]
			code := order.Uint16(chunk[0:2])
			jt := chunk[2]
			jf := chunk[3]
			k := order.Uint32(chunk[4:8])
			insns[i] = BPFInstruction{Code: code, JT: jt, JF: jf, K: k}
		}
		f.BPF = insns
	}
	return f
}

// encodeIfFilter is the writer-side inverse of decodeIfFilter.
func encodeIfFilter(f *InterfaceFilter, order binary.ByteOrder) []byte {
	if f == nil {
		return nil
	}
	switch f.Kind {
	case filterKindLibpcapString:
		out := make([]byte, 1+len(f.Text))
		out[0] = filterKindLibpcapString
		copy(out[1:], f.Text)
		return out
	case filterKindBPFProgram:
		out := make([]byte, 1+len(f.BPF)*8)
		out[0] = filterKindBPFProgram
		for i, insn := range f.BPF {
			chunk := out[1+i*8 : 1+i*8+8]
			order.PutUint16(chunk[0:2], insn.Code)
			chunk[2] = insn.JT
			chunk[3] = insn.JF
			order.PutUint32(chunk[4:8], insn.K)
		}
		return out
	default:
		return append([]byte(nil), f.Raw...)
	}
}

// RawInstructions converts a decoded BPF instruction stream into
// golang.org/x/net/bpf's RawInstruction form; Instructions disassembles
// the same stream into the form bpf.NewVM runs.
func (f *InterfaceFilter) RawInstructions() []bpf.RawInstruction {
	if f == nil || f.Kind != filterKindBPFProgram {
		return nil
	}
	out := make([]bpf.RawInstruction, len(f.BPF))
	for i, insn := range f.BPF {
		out[i] = bpf.RawInstruction{Op: insn.Code, Jt: insn.JT, Jf: insn.JF, K: insn.K}
	}
	return out
}

// Instructions is RawInstructions disassembled to bpf.Instruction, the
// form bpf.NewVM (and so NewFilterReader) accepts.
func (f *InterfaceFilter) Instructions() []bpf.Instruction {
	raw := f.RawInstructions()
	out := make([]bpf.Instruction, len(raw))
	for i, insn := range raw {
		out[i] = insn.Disassemble()
	}
	return out
}
