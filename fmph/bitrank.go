package fmph

import "math/bits"

// wordsPerSuperblock sets the super-block granularity for the rank
// index at 512 bits (spec §4.7, §9): 8 words share one cumulative
// popcount entry, trading a small per-query word scan for an index
// that is a fraction of the content's size.
const wordsPerSuperblock = 8

// bitArray is an immutable bit vector with an O(1) rank1 index, built
// once over a fixed slice of 64-bit words.
type bitArray struct {
	words     []uint64
	blockRank []uint32
}

// newBitArray builds a rank index over words. words is taken by
// reference and must not be mutated afterwards.
func newBitArray(words []uint64) *bitArray {
	nBlocks := (len(words) + wordsPerSuperblock - 1) / wordsPerSuperblock
	if nBlocks == 0 {
		nBlocks = 1
	}
	blockRank := make([]uint32, nBlocks)
	var cum uint32
	for b := 0; b < nBlocks; b++ {
		blockRank[b] = cum
		start := b * wordsPerSuperblock
		end := start + wordsPerSuperblock
		if end > len(words) {
			end = len(words)
		}
		for _, w := range words[start:end] {
			cum += uint32(bits.OnesCount64(w))
		}
	}
	return &bitArray{words: words, blockRank: blockRank}
}

// Len returns the number of bits in the array.
func (a *bitArray) Len() int { return len(a.words) * 64 }

// GetBit reports whether bit i is set.
func (a *bitArray) GetBit(i int) bool {
	return a.words[i/64]&(uint64(1)<<uint(i%64)) != 0
}

// Rank1 returns the number of set bits strictly before position i.
func (a *bitArray) Rank1(i int) uint64 {
	block := i / (wordsPerSuperblock * 64)
	r := uint64(a.blockRank[block])
	wordStart := block * wordsPerSuperblock
	wordIdx := i / 64
	for w := wordStart; w < wordIdx; w++ {
		r += uint64(bits.OnesCount64(a.words[w]))
	}
	if bitInWord := uint(i % 64); bitInWord > 0 {
		mask := (uint64(1) << bitInWord) - 1
		r += uint64(bits.OnesCount64(a.words[wordIdx] & mask))
	}
	return r
}

// countBitOnes returns the total number of set bits in the array.
func countBitOnes(words []uint64) uint64 {
	var total uint64
	for _, w := range words {
		total += uint64(bits.OnesCount64(w))
	}
	return total
}
