package huffman

// Code is a codeword: Bits, written in base d using Fragments digits,
// most significant digit first (spec §4.1).
type Code struct {
	Bits      uint32
	Fragments uint32
}
