package fmph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// assertBijection checks that fn assigns every key in keys a distinct
// index in [0, len(keys)) (spec §8 property 6).
func assertBijection[K any](t *testing.T, fn *Function[K], keys []K) {
	t.Helper()
	seen := make([]bool, len(keys))
	for _, k := range keys {
		idx, ok := fn.Get(k)
		require.True(t, ok, "key not found")
		require.Less(t, idx, uint64(len(keys)))
		require.False(t, seen[idx], "duplicate index %d", idx)
		seen[idx] = true
	}
	for _, s := range seen {
		require.True(t, s)
	}
}

// S5 — FMPH on small integer sets.
func TestScenario5SmallIntegerSets(t *testing.T) {
	keys1 := []int64{1, 2, 5}
	fn1, err := New[int64](NewSliceKeySet(append([]int64(nil), keys1...)), Int64Hasher{})
	require.NoError(t, err)
	assertBijection(t, fn1, keys1)

	keys2 := make([]int64, 0, 200)
	for i := int64(-50); i < 150; i++ {
		keys2 = append(keys2, i)
	}
	fn2, err := New[int64](NewSliceKeySet(append([]int64(nil), keys2...)), Int64Hasher{})
	require.NoError(t, err)
	assertBijection(t, fn2, keys2)

	keys3 := []rune{'a', 'b', 'c', 'd'}
	fn3, err := New[rune](NewSliceKeySet(append([]rune(nil), keys3...)), RuneHasher{})
	require.NoError(t, err)
	assertBijection(t, fn3, keys3)
}

// S6 — parallel construction equals serial construction byte-for-byte,
// given a deterministic hash family.
func TestScenario6ParallelEqualsSerial(t *testing.T) {
	keys := make([]int64, 0, 5000)
	for i := int64(0); i < 5000; i++ {
		keys = append(keys, i*7+3)
	}

	confST := DefaultBuildConf[int64](Int64Hasher{}).WithMultipleThreads(false)
	confMT := DefaultBuildConf[int64](Int64Hasher{}).WithMultipleThreads(true)

	fnST, err := WithConf[int64](NewSliceKeySet(append([]int64(nil), keys...)), confST)
	require.NoError(t, err)
	fnMT, err := WithConf[int64](NewSliceKeySet(append([]int64(nil), keys...)), confMT)
	require.NoError(t, err)

	var bufST, bufMT bytes.Buffer
	require.NoError(t, fnST.Write(&bufST))
	require.NoError(t, fnMT.Write(&bufMT))
	require.Equal(t, bufST.Bytes(), bufMT.Bytes())
}

func TestWriteReadRoundTrip(t *testing.T) {
	keys := make([]int64, 0, 1000)
	for i := int64(0); i < 1000; i++ {
		keys = append(keys, i*13+1)
	}
	fn, err := New[int64](NewSliceKeySet(append([]int64(nil), keys...)), Int64Hasher{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, fn.Write(&buf))
	require.Equal(t, fn.WriteBytes(), buf.Len())

	got, err := ReadWithHasher[int64](&buf, Int64Hasher{})
	require.NoError(t, err)
	require.Equal(t, fn.LevelSizes(), got.LevelSizes())

	for _, k := range keys {
		want, ok := fn.Get(k)
		require.True(t, ok)
		gotIdx, ok := got.Get(k)
		require.True(t, ok)
		require.Equal(t, want, gotIdx)
	}
}

func TestRefKeySetBijection(t *testing.T) {
	keys := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf"}
	fn, err := New[string](NewRefKeySet(keys), NewStringHasher())
	require.NoError(t, err)
	assertBijection(t, fn, keys)
	// the caller's slice must be untouched.
	require.Equal(t, []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf"}, keys)
}

func TestCachedKeySetBijection(t *testing.T) {
	keys := []string{"one", "two", "three", "four", "five", "six", "seven", "eight"}
	source := func(visit func(string) bool) {
		for _, k := range keys {
			if !visit(k) {
				return
			}
		}
	}
	ks := NewCachedKeySet[string](source, len(keys), len(keys)*2)
	fn, err := New[string](ks, NewStringHasher())
	require.NoError(t, err)
	assertBijection(t, fn, keys)
}
