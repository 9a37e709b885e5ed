package huffman

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bwesterb/go-succinct/internal/vbyte"
)

// ValueWriter serializes a single value of a coding.
type ValueWriter[T any] func(io.Writer, T) error

// ValueReader deserializes a single value of a coding.
type ValueReader[T any] func(*bufio.Reader) (T, error)

// writeInternalNodesCount writes internal_nodes_count as VByte(L)
// followed by L VBytes, where L = len(internal_nodes_count)-1: the
// trailing zero (spec §3 invariant "last entry is always 0") is
// dropped and reconstructed on read.
func writeInternalNodesCount(w io.Writer, inc []uint32) error {
	l := len(inc) - 1
	if err := vbyte.Write(w, uint32(l)); err != nil {
		return err
	}
	for _, v := range inc[:l] {
		if err := vbyte.Write(w, v); err != nil {
			return err
		}
	}
	return nil
}

func readInternalNodesCount(r *bufio.Reader) ([]uint32, error) {
	l, err := vbyte.Read(r)
	if err != nil {
		return nil, err
	}
	inc := make([]uint32, l+1)
	for i := uint32(0); i < l; i++ {
		inc[i], err = vbyte.Read(r)
		if err != nil {
			return nil, err
		}
	}
	return inc, nil
}

func writeValues[T any](w io.Writer, values []T, writeValue ValueWriter[T]) error {
	if err := vbyte.Write(w, uint32(len(values))); err != nil {
		return err
	}
	for _, v := range values {
		if err := writeValue(w, v); err != nil {
			return err
		}
	}
	return nil
}

func readValues[T any](r *bufio.Reader, readValue ValueReader[T]) ([]T, error) {
	n, err := vbyte.Read(r)
	if err != nil {
		return nil, err
	}
	values := make([]T, n)
	for i := range values {
		values[i], err = readValue(r)
		if err != nil {
			return nil, err
		}
	}
	return values, nil
}

// Write serializes c to w as degree ∥ internal_nodes_count ∥ values
// (spec §4.9/§6).
func (c *Coding[T]) Write(w io.Writer, writeValue ValueWriter[T]) error {
	switch d := c.Degree.(type) {
	case BitsPerFragment:
		if err := WriteBitsPerFragment(w, d); err != nil {
			return err
		}
	case GeneralDegree:
		if err := WriteGeneralDegree(w, d); err != nil {
			return err
		}
	default:
		return fmt.Errorf("huffman: unsupported degree type %T", c.Degree)
	}
	if err := writeInternalNodesCount(w, c.InternalNodesCount); err != nil {
		return err
	}
	return writeValues(w, c.Values, writeValue)
}

// ReadBitsPerFragmentCoding reads a Coding written with a BitsPerFragment
// degree. The caller must know the degree variant in advance — Go has
// no runtime discriminator in the wire format, matching the original
// Rust crate, which dispatches statically on the generic degree type
// parameter rather than a tag byte.
func ReadBitsPerFragmentCoding[T any](r *bufio.Reader, readValue ValueReader[T]) (*Coding[T], error) {
	degree, err := ReadBitsPerFragment(r)
	if err != nil {
		return nil, err
	}
	return readCodingBody(r, degree, readValue)
}

// ReadGeneralDegreeCoding reads a Coding written with a GeneralDegree
// degree. See ReadBitsPerFragmentCoding for the discriminator caveat.
func ReadGeneralDegreeCoding[T any](r *bufio.Reader, readValue ValueReader[T]) (*Coding[T], error) {
	degree, err := ReadGeneralDegree(r)
	if err != nil {
		return nil, err
	}
	return readCodingBody(r, degree, readValue)
}

func readCodingBody[T any](r *bufio.Reader, degree Degree, readValue ValueReader[T]) (*Coding[T], error) {
	inc, err := readInternalNodesCount(r)
	if err != nil {
		return nil, err
	}
	values, err := readValues(r, readValue)
	if err != nil {
		return nil, err
	}
	return &Coding[T]{Values: values, InternalNodesCount: inc, Degree: degree}, nil
}
