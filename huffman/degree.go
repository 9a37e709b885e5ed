package huffman

import (
	"fmt"
	"io"
	"math"

	"github.com/bwesterb/go-succinct/internal/vbyte"
)

// Degree describes the branching factor d of a canonical minimum-redundancy
// code (spec §3, "degree D"). There are two variants: BitsPerFragment,
// where d is always a power of two and multiplication by d is a shift,
// and GeneralDegree, which allows any d >= 2 at the cost of a real
// multiplication.
type Degree interface {
	// AsU32 returns d.
	AsU32() uint32
	// Mul returns n*d.
	Mul(n uint32) uint32
}

// BitsPerFragment is a Degree with d = 1<<b, 1 <= b <= 8. One fragment
// of the codeword then fits in b bits, which is what makes it the
// common choice: b=1 is ordinary binary Huffman coding.
type BitsPerFragment uint8

func (b BitsPerFragment) AsU32() uint32        { return 1 << uint32(b) }
func (b BitsPerFragment) Mul(n uint32) uint32  { return n << uint32(b) }
func (b BitsPerFragment) String() string       { return fmt.Sprintf("BitsPerFragment(%d)", uint8(b)) }

// GeneralDegree is a Degree for an arbitrary branching factor d >= 2.
type GeneralDegree uint32

func (d GeneralDegree) AsU32() uint32       { return uint32(d) }
func (d GeneralDegree) Mul(n uint32) uint32 { return n * uint32(d) }
func (d GeneralDegree) String() string      { return fmt.Sprintf("Degree(%d)", uint32(d)) }

// WriteBitsPerFragment writes b as a single byte (spec §4.9).
func WriteBitsPerFragment(w io.Writer, b BitsPerFragment) error {
	_, err := w.Write([]byte{byte(b)})
	return err
}

// ReadBitsPerFragment reads a BitsPerFragment written by WriteBitsPerFragment.
func ReadBitsPerFragment(r io.ByteReader) (BitsPerFragment, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b < 1 || b > 8 {
		return 0, fmt.Errorf("%w: bits-per-fragment %d out of range [1,8]", ErrMalformed, b)
	}
	return BitsPerFragment(b), nil
}

// WriteGeneralDegree writes d as a VByte (spec §4.9).
func WriteGeneralDegree(w io.Writer, d GeneralDegree) error {
	return vbyte.Write(w, uint32(d))
}

// ReadGeneralDegree reads a GeneralDegree written by WriteGeneralDegree.
func ReadGeneralDegree(r io.ByteReader) (GeneralDegree, error) {
	v, err := vbyte.Read(r)
	if err != nil {
		return 0, err
	}
	if v < 2 {
		return 0, fmt.Errorf("%w: degree %d below minimum of 2", ErrMalformed, v)
	}
	return GeneralDegree(v), nil
}

// EntropyToBPF heuristically picks bits-per-fragment that gives close to
// constant-length codewords for the given (estimated) Shannon entropy,
// per spec §6. Callers typically pass entropy minus a small margin
// (e.g. 0.2) rather than the raw estimate.
func EntropyToBPF(entropy float64) BitsPerFragment {
	b := int(math.Ceil(math.Max(1, entropy))) - 1
	if b < 0 {
		b = 0
	}
	if b > 8 {
		b = 8
	}
	return BitsPerFragment(b)
}
