package pcapng

import (
	"io"

	"golang.org/x/net/bpf"
)

// FilterReader streams packet records out of a Reader through a
// compiled BPF program, surfacing only the ones the program keeps. It
// generalizes the single-section packet-copy idiom to any number of
// sections: interface remapping resets whenever the underlying Reader
// crosses into a new section, rather than assuming the whole file
// shares one interface table.
type FilterReader struct {
	rd *Reader
	vm *bpf.VM
}

// NewFilterReader compiles prog and returns a FilterReader pulling
// packet records from rd.
func NewFilterReader(rd *Reader, prog []bpf.Instruction) (*FilterReader, error) {
	vm, err := bpf.NewVM(prog)
	if err != nil {
		return nil, err
	}
	return &FilterReader{rd: rd, vm: vm}, nil
}

// Next returns the next packet record whose payload the compiled
// program keeps. Non-packet records (syscall events, journal entries)
// and packets the program rejects are drained and skipped; io.EOF
// surfaces once the underlying Reader is exhausted.
func (f *FilterReader) Next() (*Record, error) {
	for {
		rec, err := f.rd.NextRecord()
		if err != nil {
			return nil, err
		}
		if rec.Kind != RecordPacket {
			continue
		}
		keep, err := f.vm.Run(rec.Payload)
		if err != nil {
			return nil, err
		}
		if keep == 0 {
			continue
		}
		return rec, nil
	}
}

// CopyTo drains f, writing every kept packet to w. It lazily adds an
// interface to w the first time it sees a given (section, interface id)
// pair, remapping ids as needed since w's interface table starts empty
// regardless of how many sections the source file had. It returns the
// number of packets written.
func (f *FilterReader) CopyTo(w *Writer) (int, error) {
	var currentSection *Section
	idMap := make(map[uint32]uint32)
	count := 0

	for {
		rec, err := f.Next()
		if err != nil {
			if err == io.EOF {
				return count, nil
			}
			return count, err
		}

		if sec := f.rd.CurrentSection(); sec != currentSection {
			idMap = make(map[uint32]uint32)
			currentSection = sec
		}

		newID, ok := idMap[rec.InterfaceID]
		if !ok {
			dlt, _ := f.rd.cfg.linkTypes.ToDLT(rec.Encapsulation)
			id, err := w.AddInterface(dlt, w.linkTypes.MaxSnaplen(rec.Encapsulation))
			if err != nil {
				return count, err
			}
			idMap[rec.InterfaceID] = id
			newID = id
		}

		out := *rec
		out.InterfaceID = newID
		out.HasInterface = true
		if err := w.WriteRecord(&out); err != nil {
			return count, err
		}
		count++
	}
}
