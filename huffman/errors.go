package huffman

import "errors"

// ErrMalformed is returned (wrapped) by the Degree readers, and so by
// ReadBitsPerFragmentCoding/ReadGeneralDegreeCoding, when the degree
// field is out of range (spec §7, "malformed Huffman stream"). A VByte
// that fails to decode is reported with the internal vbyte package's
// error instead, not with ErrMalformed.
var ErrMalformed = errors.New("huffman: malformed stream")
