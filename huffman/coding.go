// Package huffman implements canonical minimum-redundancy (Huffman)
// coding of arbitrary degree: the succinct representation of spec §3/§4,
// built by the in-place construction of §4.2, with level/code iterators
// (§4.3) and a streaming decoder (§4.4).
package huffman

import "sort"

// Coding is the succinct canonical representation described in spec §3:
// Values sorted by descending original frequency, and
// InternalNodesCount, the per-level count of internal nodes.
type Coding[T any] struct {
	Values             []T
	InternalNodesCount []uint32
	Degree             Degree
}

// FromSorted constructs a Coding for the given values and degree, where
// freq holds the values' frequencies in non-descending order (spec
// §4.2). It runs in O(n) and reuses freq as scratch space.
func FromSorted[T any](degree Degree, values []T, freq []uint32) *Coding[T] {
	n := uint32(len(freq))
	d := degree.AsU32()

	if n <= d {
		reverseSlice(values)
		return &Coding[T]{
			Values:             values,
			InternalNodesCount: []uint32{0},
			Degree:             degree,
		}
	}

	internalNodesCount := buildInPlace(degree, freq)
	reverseSlice(values)
	return &Coding[T]{
		Values:             values,
		InternalNodesCount: internalNodesCount,
		Degree:             degree,
	}
}

// FromUnsorted co-sorts values and freq by ascending frequency (O(n log n))
// and then delegates to FromSorted.
func FromUnsorted[T any](degree Degree, values []T, freq []uint32) *Coding[T] {
	coSort(freq, values)
	return FromSorted(degree, values, freq)
}

// FromFrequencies constructs a Coding from a map of value to frequency.
func FromFrequencies[T comparable](degree Degree, freqMap map[T]uint32) *Coding[T] {
	values := make([]T, 0, len(freqMap))
	freq := make([]uint32, 0, len(freqMap))
	for v, f := range freqMap {
		values = append(values, v)
		freq = append(freq, f)
	}
	return FromUnsorted(degree, values, freq)
}

// FromIter counts occurrences of the values pushed to it by each, then
// constructs a Coding for the resulting frequencies.
func FromIter[T comparable](degree Degree, each func(yield func(T))) *Coding[T] {
	freqMap := make(map[T]uint32)
	each(func(v T) { freqMap[v]++ })
	return FromFrequencies(degree, freqMap)
}

// TotalFragmentsCount returns the sum, over all values, of the number of
// fragments in their codeword (spec §4.3). It runs in O(L) time and
// O(1) memory, where L is the number of tree levels.
func (c *Coding[T]) TotalFragmentsCount() int {
	total := 0
	it := c.Levels()
	for {
		leaves, _, level, ok := it.Next()
		if !ok {
			break
		}
		total += len(leaves) * int(level)
	}
	return total
}

// Decoder returns a fresh streaming decoder for c (spec §4.4).
func (c *Coding[T]) Decoder() *Decoder[T] {
	return newDecoder(c)
}

// LevelIter iterates the tree level by level (spec §4.3): for each
// level it exposes the leaves assigned to it, the number of internal
// nodes at that level (equal to the first leaf's codeword value), and
// the level's depth (equal to the leaves' codeword length in fragments).
type LevelIter[T any] struct {
	coding         *Coding[T]
	lastValueIndex int
	levelSize      uint32
	level          uint32
}

// Levels returns an iterator over the levels of c.
func (c *Coding[T]) Levels() *LevelIter[T] {
	return &LevelIter[T]{coding: c, levelSize: c.Degree.AsU32()}
}

// Next returns the next level, or ok=false once every value has been
// visited.
func (it *LevelIter[T]) Next() (leaves []T, internalNodes uint32, level uint32, ok bool) {
	if it.lastValueIndex == len(it.coding.Values) {
		return nil, 0, 0, false
	}
	valueIndex := it.lastValueIndex
	internalNodes = it.coding.InternalNodesCount[it.level]
	it.level++
	leavesCount := it.levelSize - internalNodes
	it.lastValueIndex = minInt(valueIndex+int(leavesCount), len(it.coding.Values))
	it.levelSize = it.coding.Degree.Mul(internalNodes)
	return it.coding.Values[valueIndex:it.lastValueIndex], internalNodes, it.level, true
}

// CodesIter yields one (value, Code) pair per value, in the same order
// as Values (spec §4.1 "codes()").
type CodesIter[T any] struct {
	levelIter  *LevelIter[T]
	valueIndex int
	bits       uint32
}

// Codes returns an iterator over (value, Code) pairs.
func (c *Coding[T]) Codes() *CodesIter[T] {
	return &CodesIter[T]{levelIter: c.Levels()}
}

// Next returns the next value and its codeword, or ok=false once every
// value has been visited.
func (it *CodesIter[T]) Next() (value T, code Code, ok bool) {
	for it.valueIndex == it.levelIter.lastValueIndex {
		_, firstCodeBits, _, more := it.levelIter.Next()
		if !more {
			var zero T
			return zero, Code{}, false
		}
		it.bits = firstCodeBits
	}
	value = it.levelIter.coding.Values[it.valueIndex]
	code = Code{Bits: it.bits, Fragments: it.levelIter.level}
	it.valueIndex++
	it.bits++
	return value, code, true
}

func reverseSlice[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// coSort sorts freq into non-descending order, permuting values the
// same way. Ties keep their relative order (stable sort), matching the
// "ties broken by original insertion order" invariant of spec §3.
func coSort[T any](freq []uint32, values []T) {
	idx := make([]int, len(freq))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return freq[idx[i]] < freq[idx[j]]
	})

	sortedFreq := make([]uint32, len(freq))
	sortedValues := make([]T, len(values))
	for i, j := range idx {
		sortedFreq[i] = freq[j]
		sortedValues[i] = values[j]
	}
	copy(freq, sortedFreq)
	copy(values, sortedValues)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
