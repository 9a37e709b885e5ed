package fmph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceKeySetRetainKeys(t *testing.T) {
	ks := NewSliceKeySet([]int{1, 2, 3, 4, 5, 6})
	ks.RetainKeys(func(k int) bool { return k%2 == 0 })
	require.Equal(t, 3, ks.Len())

	var got []int
	ks.ForEachKey(func(k int) { got = append(got, k) })
	sort.Ints(got)
	require.Equal(t, []int{2, 4, 6}, got)
}

func TestSliceKeySetParRetainKeys(t *testing.T) {
	keys := make([]int, 1000)
	for i := range keys {
		keys[i] = i
	}
	ks := NewSliceKeySet(keys)
	ks.ParRetainKeys(func(k int) bool { return k%3 == 0 })

	var got []int
	ks.ForEachKey(func(k int) { got = append(got, k) })
	sort.Ints(got)

	var want []int
	for i := 0; i < 1000; i++ {
		if i%3 == 0 {
			want = append(want, i)
		}
	}
	require.Equal(t, want, got)
}

func TestRefKeySetRetainKeysLeavesSourceUntouched(t *testing.T) {
	src := []int{10, 11, 12, 13, 14}
	ks := NewRefKeySet(src)
	ks.RetainKeys(func(k int) bool { return k >= 12 })
	require.Equal(t, 3, ks.Len())
	require.Equal(t, []int{10, 11, 12, 13, 14}, src)

	var got []int
	ks.ForEachKey(func(k int) { got = append(got, k) })
	sort.Ints(got)
	require.Equal(t, []int{12, 13, 14}, got)
}

func TestRefKeySetParRetainKeys(t *testing.T) {
	src := make([]int, 500)
	for i := range src {
		src[i] = i
	}
	ks := NewRefKeySet(src)
	ks.ParRetainKeys(func(k int) bool { return k%5 == 0 })

	var got []int
	ks.ForEachKey(func(k int) { got = append(got, k) })
	sort.Ints(got)

	var want []int
	for i := 0; i < 500; i++ {
		if i%5 == 0 {
			want = append(want, i)
		}
	}
	require.Equal(t, want, got)
}
