package huffman

// Status is the result of Decoder.Consume (spec §4.4).
type Status int

const (
	// Incomplete means the codeword needs another fragment.
	Incomplete Status = iota
	// Decoded means the fragment just consumed completed a valid
	// codeword; the decoded value is returned alongside it.
	Decoded
	// Invalid means the fragment sequence does not correspond to any
	// codeword (either the fragment itself, in ConsumeChecked, or the
	// traversal fell past the leaf range).
	Invalid
)

// Decoder streams fragments of a codeword (one base-d digit at a time)
// and reports, after each fragment, whether a value has been decoded,
// more fragments are needed, or the stream is invalid (spec §4.4).
//
// Worst-case time to decode one value is O(L), the depth of the
// deepest leaf; expected time is O(log n); best case O(1).
type Decoder[T any] struct {
	coding      *Coding[T]
	shift       uint32
	firstLeafNr uint32
	levelSize   uint32
	level       uint32
}

func newDecoder[T any](c *Coding[T]) *Decoder[T] {
	return &Decoder[T]{coding: c, levelSize: c.Degree.AsU32()}
}

// Consume feeds one fragment (a digit in [0, d)) to the decoder.
// Behavior is undefined if fragment >= d; use ConsumeChecked to guard
// against that.
func (d *Decoder[T]) Consume(fragment uint32) (T, Status) {
	d.shift += fragment
	internalNodesCount := d.coding.InternalNodesCount[d.level]

	if d.shift < internalNodesCount {
		d.shift = d.coding.Degree.Mul(d.shift)
		d.firstLeafNr += d.levelSize - internalNodesCount
		d.levelSize = d.coding.Degree.Mul(internalNodesCount)
		d.level++
		var zero T
		return zero, Incomplete
	}

	idx := d.firstLeafNr + d.shift - internalNodesCount
	if int(idx) < len(d.coding.Values) {
		return d.coding.Values[idx], Decoded
	}
	var zero T
	return zero, Invalid
}

// ConsumeChecked rejects fragment >= d up front, returning Invalid
// instead of consulting the tree.
func (d *Decoder[T]) ConsumeChecked(fragment uint32) (T, Status) {
	if fragment >= d.coding.Degree.AsU32() {
		var zero T
		return zero, Invalid
	}
	return d.Consume(fragment)
}
