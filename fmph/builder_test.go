package fmph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBuildBeyondCacheThreshold exercises buildLevelST/buildLevelMT
// (the "too many keys to cache hashes" branch of spec §4.5) by setting
// CacheThreshold below the input size.
func TestBuildBeyondCacheThreshold(t *testing.T) {
	keys := make([]int64, 0, 3000)
	for i := int64(0); i < 3000; i++ {
		keys = append(keys, i*31+17)
	}

	for _, mt := range []bool{false, true} {
		conf := DefaultBuildConf[int64](Int64Hasher{}).
			WithCacheThreshold(100).
			WithMultipleThreads(mt)
		fn, err := WithConf[int64](NewSliceKeySet(append([]int64(nil), keys...)), conf)
		require.NoError(t, err)
		assertBijection(t, fn, keys)
	}
}

func TestRelativeLevelSizeAboveDefaultStillTerminates(t *testing.T) {
	keys := make([]int64, 0, 500)
	for i := int64(0); i < 500; i++ {
		keys = append(keys, i)
	}
	conf := DefaultBuildConf[int64](Int64Hasher{}).WithRelativeLevelSize(200)
	fn, err := WithConf[int64](NewSliceKeySet(append([]int64(nil), keys...)), conf)
	require.NoError(t, err)
	assertBijection(t, fn, keys)
}
