// Package vbyte implements the variable-byte integer codec used to
// persist huffman.Coding and fmph.Function (spec §6): 7 bits of payload
// per byte, MSB set while more bytes follow.
//
// That is exactly the format encoding/binary.PutUvarint/Uvarint already
// implement, so this package is a thin, documented wrapper rather than
// a reimplementation — spec.md §1 calls the codec "a documented wire
// primitive" explicitly out of scope for reinvention.
package vbyte

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrMalformed is returned when a VByte sequence cannot be decoded,
// e.g. the stream ends mid-continuation or overflows a uint32.
var ErrMalformed = errors.New("vbyte: malformed integer")

// Len returns the number of bytes Write(w, v) would emit.
func Len(v uint32) int {
	n := 1
	for v >= 128 {
		v >>= 7
		n++
	}
	return n
}

// Write encodes v and writes it to w.
func Write(w io.Writer, v uint32) error {
	var buf [binary.MaxVarintLen32]byte
	n := binary.PutUvarint(buf[:], uint64(v))
	_, err := w.Write(buf[:n])
	return err
}

// Read decodes a single VByte-encoded uint32 from r.
func Read(r io.ByteReader) (uint32, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, ErrMalformed
		}
		return 0, err
	}
	if v > 0xffffffff {
		return 0, ErrMalformed
	}
	return uint32(v), nil
}

// ArrayLen returns the number of bytes WriteArray(w, vs) would emit:
// a VByte length prefix followed by one VByte per element.
func ArrayLen(vs []uint32) int {
	n := Len(uint32(len(vs)))
	for _, v := range vs {
		n += Len(v)
	}
	return n
}

// WriteArray writes len(vs) as a VByte, followed by each element.
func WriteArray(w io.Writer, vs []uint32) error {
	if err := Write(w, uint32(len(vs))); err != nil {
		return err
	}
	for _, v := range vs {
		if err := Write(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadArray reads a VByte array written by WriteArray.
func ReadArray(r io.ByteReader) ([]uint32, error) {
	n, err := Read(r)
	if err != nil {
		return nil, err
	}
	vs := make([]uint32, n)
	for i := range vs {
		vs[i], err = Read(r)
		if err != nil {
			return nil, err
		}
	}
	return vs, nil
}

// WriteArray64 and ReadArray64 are the uint64 analogues, used for
// fmph.Function's level_sizes (spec §4.10).
func WriteArray64(w io.Writer, vs []uint64) error {
	if err := Write(w, uint32(len(vs))); err != nil {
		return err
	}
	var buf [binary.MaxVarintLen64]byte
	for _, v := range vs {
		n := binary.PutUvarint(buf[:], v)
		if _, err := w.Write(buf[:n]); err != nil {
			return err
		}
	}
	return nil
}

func ArrayLen64(vs []uint64) int {
	n := Len(uint32(len(vs)))
	for _, v := range vs {
		var buf [binary.MaxVarintLen64]byte
		n += binary.PutUvarint(buf[:], v)
	}
	return n
}

func ReadArray64(r io.ByteReader) ([]uint64, error) {
	n, err := Read(r)
	if err != nil {
		return nil, err
	}
	vs := make([]uint64, n)
	for i := range vs {
		v, err := binary.ReadUvarint(r)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, ErrMalformed
			}
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}
