package pcapng

import (
	"bufio"
	"errors"
	"io"
)

// byteReader is a buffered input cursor with length-checked reads that
// return a distinguishable short-read error instead of io.ErrUnexpectedEOF,
// plus seek/tell for callers that need to rewind or record a position.
type byteReader struct {
	r      io.Reader
	rs     io.ReadSeeker // non-nil when r supports seeking
	offset int64
}

func newByteReader(r io.Reader) *byteReader {
	br := &byteReader{r: bufio.NewReader(r)}
	if rs, ok := r.(io.ReadSeeker); ok {
		br.rs = rs
		// Buffering would desync offset bookkeeping across seeks, so
		// only wrap in bufio when the source is not seekable.
		br.r = r
	}
	return br
}

// readBytes reads exactly n bytes or returns a KindShortRead error.
// EOF with zero bytes read still reports as a short read here: callers
// who want EOF-as-a-signal should use readOrEOF instead.
func (b *byteReader) readBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(b.r, buf)
	b.offset += int64(read)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, wrapErr(KindShortRead, b.offset, "short read", err)
		}
		return nil, err
	}
	return buf, nil
}

// readOrEOF reads up to n bytes. It returns (nil, io.EOF) only when
// zero bytes were available before hitting end of file; any partial
// read before EOF is a KindShortRead.
func (b *byteReader) readOrEOF(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(b.r, buf)
	b.offset += int64(read)
	if err != nil {
		if errors.Is(err, io.EOF) && read == 0 {
			return nil, io.EOF
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, wrapErr(KindShortRead, b.offset, "short read", err)
		}
		return nil, err
	}
	return buf, nil
}

func (b *byteReader) tell() int64 {
	return b.offset
}

func (b *byteReader) seek(offset int64) error {
	if b.rs == nil {
		return newErr(KindInternal, b.offset, "seek on non-seekable source")
	}
	n, err := b.rs.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}
	b.offset = n
	return nil
}

func (b *byteReader) canSeek() bool { return b.rs != nil }
