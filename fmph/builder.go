package fmph

import (
	"fmt"
	"math/bits"
	"runtime"
	"sync/atomic"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"
)

// maxLevels bounds the number of levels the builder will construct
// before giving up. Termination is guaranteed in expectation when the
// hash family is independent across seeds and RelativeLevelSize >= 100
// (spec §4.5); this is the defense against a pathological hash family
// or configuration that the spec calls for (§9, "implementations may
// cap at a large level count ... on cap, report a fatal build error").
const maxLevels = 64

// ErrLevelCapExceeded is returned when construction does not converge
// within maxLevels levels.
var ErrLevelCapExceeded = fmt.Errorf("fmph: construction exceeded %d levels without terminating", maxLevels)

// mapToRange maps a uniformly-distributed 64-bit hash into [0, n) using
// a fixed-point multiply-and-shift (Lemire's method): the high 64 bits
// of the 128-bit product hash*n.
func mapToRange(hash, n uint64) uint64 {
	hi, _ := bits.Mul64(hash, n)
	return hi
}

func index[K any](key K, hasher Hasher[K], seed uint32, levelSizeBits int) int {
	return int(mapToRange(hasher.Hash(key, seed), uint64(levelSizeBits)))
}

func getBitPlain(words []uint64, i int) bool {
	return words[i/64]&(uint64(1)<<uint(i%64)) != 0
}

// addBit sets bitIndex in result; if it was already set, records the
// collision instead (spec §4.5's "first writer wins, second writer
// marks a collision" protocol). Used by the single-threaded build path,
// where result/collision are backed by bits-and-blooms/bitset rather
// than raw words, since there is no concurrent access to race against.
func addBit(result, collision *bitset.BitSet, bitIndex int) {
	i := uint(bitIndex)
	if result.Test(i) {
		collision.Set(i)
	} else {
		result.Set(i)
	}
}

// syncAddBit is addBit's lock-free counterpart: concurrent callers each
// fetch-or their bit into result; whichever call observes the bit
// already set marks the collision. The order of concurrent fetch-or
// calls is unconstrained — correctness follows from each fetch-or being
// atomic and the result-minus-collision sweep happening after every
// goroutine has joined (spec §5).
func syncAddBit(result, collision []atomic.Uint64, bitIndex int) {
	idx := bitIndex / 64
	mask := uint64(1) << uint(bitIndex%64)
	old := result[idx].Or(mask)
	if old&mask != 0 {
		collision[idx].Or(mask)
	}
}

func removeCollided(result, collision *bitset.BitSet) {
	result.InPlaceDifference(collision)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// builder runs the level-by-level construction loop of spec §4.5.
type builder[K any] struct {
	arrays             [][]uint64
	inputSize          int
	useMultipleThreads bool
	conf               BuildConf[K]
}

func newBuilder[K any](conf BuildConf[K], keys KeySet[K]) *builder[K] {
	return &builder[K]{
		inputSize:          keys.Len(),
		useMultipleThreads: conf.UseMultipleThreads && (keys.HasParForEachKey() || keys.HasParRetainKeys()) && runtime.GOMAXPROCS(0) > 1,
		conf:               conf,
	}
}

func (b *builder[K]) levelNr() uint32 { return uint32(len(b.arrays)) }

func (b *builder[K]) buildArrayForIndicesST(bitIndices []int, levelSizeSegments int) []uint64 {
	result := bitset.New(uint(levelSizeSegments * 64))
	collision := bitset.New(uint(levelSizeSegments * 64))
	for _, bi := range bitIndices {
		addBit(result, collision, bi)
	}
	removeCollided(result, collision)
	return result.Bytes()
}

func (b *builder[K]) buildArrayForIndices(bitIndices []int, levelSizeSegments int) []uint64 {
	if !b.useMultipleThreads {
		return b.buildArrayForIndicesST(bitIndices, levelSizeSegments)
	}
	result := make([]atomic.Uint64, levelSizeSegments)
	collision := make([]atomic.Uint64, levelSizeSegments)

	var g errgroup.Group
	for _, bd := range shardBounds(len(bitIndices), runtime.GOMAXPROCS(0)) {
		bd := bd
		g.Go(func() error {
			for _, bi := range bitIndices[bd[0]:bd[1]] {
				syncAddBit(result, collision, bi)
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]uint64, levelSizeSegments)
	for i := range out {
		out[i] = result[i].Load() &^ collision[i].Load()
	}
	return out
}

func (b *builder[K]) buildLevelST(keys KeySet[K], levelSizeSegments int, seed uint32) []uint64 {
	result := bitset.New(uint(levelSizeSegments * 64))
	collision := bitset.New(uint(levelSizeSegments * 64))
	levelSize := levelSizeSegments * 64
	keys.ForEachKey(func(key K) {
		addBit(result, collision, index(key, b.conf.Hasher, seed, levelSize))
	})
	removeCollided(result, collision)
	return result.Bytes()
}

func (b *builder[K]) buildLevelMT(keys KeySet[K], levelSizeSegments int, seed uint32) []uint64 {
	if !keys.HasParForEachKey() {
		return b.buildLevelST(keys, levelSizeSegments, seed)
	}
	result := make([]atomic.Uint64, levelSizeSegments)
	collision := make([]atomic.Uint64, levelSizeSegments)
	levelSize := levelSizeSegments * 64
	keys.ParForEachKey(func(key K) {
		syncAddBit(result, collision, index(key, b.conf.Hasher, seed, levelSize))
	})
	out := make([]uint64, levelSizeSegments)
	for i := range out {
		out[i] = result[i].Load() &^ collision[i].Load()
	}
	return out
}

// buildLevels runs the construction loop until no keys remain,
// appending one level's bit array to b.arrays per iteration.
func (b *builder[K]) buildLevels(keys KeySet[K], stats BuildStatsCollector) error {
	for b.inputSize != 0 {
		if len(b.arrays) >= maxLevels {
			return ErrLevelCapExceeded
		}

		levelSizeSegments := ceilDiv(b.inputSize*int(b.conf.RelativeLevelSize), 64*100)
		levelSize := levelSizeSegments * 64
		stats.Level(b.inputSize, levelSize)
		seed := b.levelNr()

		var array []uint64
		if b.inputSize < b.conf.CacheThreshold {
			bitIndices := make([]int, 0, b.inputSize)
			keys.ForEachKey(func(key K) {
				bitIndices = append(bitIndices, index(key, b.conf.Hasher, seed, levelSize))
			})
			array = b.buildArrayForIndices(bitIndices, levelSizeSegments)

			if ir, ok := any(keys).(indexRetainer); ok {
				ir.RetainAtIndices(func(pos int) bool {
					return !getBitPlain(array, bitIndices[pos])
				})
			} else {
				pos := 0
				keys.RetainKeys(func(key K) bool {
					keep := !getBitPlain(array, bitIndices[pos])
					pos++
					return keep
				})
			}
		} else if b.useMultipleThreads {
			array = b.buildLevelMT(keys, levelSizeSegments, seed)
			keys.ParRetainKeys(func(key K) bool {
				return !getBitPlain(array, index(key, b.conf.Hasher, seed, levelSize))
			})
		} else {
			array = b.buildLevelST(keys, levelSizeSegments, seed)
			keys.RetainKeys(func(key K) bool {
				return !getBitPlain(array, index(key, b.conf.Hasher, seed, levelSize))
			})
		}

		b.arrays = append(b.arrays, array)
		b.inputSize = keys.Len()
	}
	return nil
}
