// Package bitio provides the bit-level reader/writer used to persist
// fmph.Function's level bit-arrays (§4.10) and, in cmd/succinct's
// "huffman decode" subcommand, to stream a fragment file's raw bytes
// (one byte per fragment, §4.12) into Decoder.ConsumeChecked.
//
// Adapted from github.com/bwesterb/go-ncrlite's bitio.go: same buffered
// 64-bit-word accumulator, generalized so this module's other packages
// (fmph and cmd/succinct) can use it (exported names, word-aligned
// helpers for the raw bit-array persistence format of §4.10).
package bitio

import (
	"bufio"
	"encoding/binary"
	"io"
)

type Reader struct {
	r    *bufio.Reader
	size int
	buf  uint64
	err  error
}

type Writer struct {
	w      *bufio.Writer
	offset int
	buf    uint64
	err    error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) Err() error { return w.err }
func (r *Reader) Err() error { return r.err }

// Close flushes any buffered bits (zero-padded to a byte boundary) and
// the underlying bufio.Writer.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}

	for w.offset > 0 {
		w.err = w.w.WriteByte(byte(w.buf))
		w.buf >>= 8
		w.offset -= 8

		if w.err != nil {
			return w.err
		}
	}

	w.err = w.w.Flush()
	return w.err
}

// WriteBits writes the l low bits of bs, least-significant bit first.
// l must be at most 64.
func (w *Writer) WriteBits(bs uint64, l int) {
	if w.err != nil {
		return
	}

	w.buf |= bs << w.offset

	if w.offset+l < 64 {
		w.offset += l
		return
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], w.buf)
	_, err := w.w.Write(buf[:])
	if err != nil {
		w.err = err
		return
	}

	l2 := 64 - w.offset
	w.buf = bs >> l2
	w.offset = l - l2
}

// WriteWord writes a full 64-bit word; used to persist FMPH level
// bit-arrays (§4.10). Equivalent to WriteBits(word, 64) but named for
// clarity at call sites that deal in raw words rather than fragments.
func (w *Writer) WriteWord(word uint64) {
	w.WriteBits(word, 64)
}

// readBits reads bits assuming l <= r.size.
func (r *Reader) readBits(l int) uint64 {
	ret := r.buf & (uint64(1<<l) - 1)
	r.size -= l
	r.buf >>= l
	return ret
}

// ReadBits reads l bits (l <= 64), least-significant bit first.
func (r *Reader) ReadBits(l int) uint64 {
	read := min(l, r.size)

	ret := r.readBits(read)
	if read == l {
		return ret
	}

	var buf [8]byte
	n, err := r.r.Read(buf[:])
	if n == 0 {
		r.err = err
		return 0
	}

	// io.Reader may use the whole of buf as scratch space.
	for i := n; i < 8; i++ {
		buf[i] = 0
	}

	r.buf = binary.LittleEndian.Uint64(buf[:])
	r.size = 8 * n

	ret |= r.readBits(l-read) << read
	return ret
}

// ReadWord reads a full 64-bit word written by WriteWord.
func (r *Reader) ReadWord() uint64 {
	return r.ReadBits(64)
}
