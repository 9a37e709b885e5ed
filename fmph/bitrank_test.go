package fmph

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitArrayRank1MatchesNaiveCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	words := make([]uint64, 40) // 2560 bits, spans multiple super-blocks
	for i := range words {
		words[i] = rng.Uint64()
	}
	a := newBitArray(words)

	var naive []uint64
	var cum uint64
	for i := 0; i < a.Len(); i++ {
		naive = append(naive, cum)
		if a.GetBit(i) {
			cum++
		}
	}
	for i := 0; i < a.Len(); i += 7 {
		require.Equal(t, naive[i], a.Rank1(i), "rank1(%d)", i)
	}
	require.Equal(t, cum, countBitOnes(words))
}

func TestBitArraySingleBlock(t *testing.T) {
	words := []uint64{0b1011, 0b0101}
	a := newBitArray(words)
	require.Equal(t, uint64(0), a.Rank1(0))
	require.Equal(t, uint64(1), a.Rank1(1))
	require.Equal(t, uint64(2), a.Rank1(2))
	require.Equal(t, uint64(3), a.Rank1(4))
	require.Equal(t, uint64(3), a.Rank1(64))
	require.Equal(t, uint64(4), a.Rank1(65))
}
