package fmph

import "hash/maphash"

// Hasher produces a seeded hash of a key. Implementations must be safe
// for concurrent use: the builder calls Hash from multiple goroutines
// during multi-threaded construction (spec §5, "Hash builder: read-only,
// Sync").
//
// Hash must behave as an independent member of a hash family across
// seeds: Hash(k, s1) and Hash(k, s2) should be statistically unrelated
// for s1 != s2. FMPH's termination guarantee (spec §4.5) relies on this.
type Hasher[K any] interface {
	Hash(key K, seed uint32) uint64
}

// mix64 is the finalizer of MurmurHash3's 64-bit mixer: it scrambles a
// 64-bit value so that single-bit input differences spread across the
// whole output.
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// bhash folds a 64-bit key and a seed into one 64-bit hash, one round at
// a time, in the style of Zi Long Tan's superfast hash as adapted by
// opencoff/go-mph's bbhash.go: each input is mixed with mix64 before it
// is XORed in, the accumulator is multiplied by a fixed odd constant
// after each fold, and it is mixed once more at the end.
func bhash(key uint64, seed uint32) uint64 {
	const m uint64 = 0x880355f21e6d1965
	h := m
	h ^= mix64(key)
	h *= m
	h ^= mix64(uint64(seed))
	h *= m
	h = mix64(h)
	return h
}

// Uint64Hasher is the default Hasher for uint64 keys.
type Uint64Hasher struct{}

func (Uint64Hasher) Hash(key uint64, seed uint32) uint64 { return bhash(key, seed) }

// Int64Hasher is the default Hasher for int64 keys.
type Int64Hasher struct{}

func (Int64Hasher) Hash(key int64, seed uint32) uint64 { return bhash(uint64(key), seed) }

// IntHasher is the default Hasher for int keys.
type IntHasher struct{}

func (IntHasher) Hash(key int, seed uint32) uint64 { return bhash(uint64(key), seed) }

// BytesHasher hashes []byte keys with maphash, folding the hasher's own
// random maphash seed (made once by NewBytesHasher) together with the
// build seed, so that different build seeds give independent hash
// functions while still benefiting from maphash's AHash-like speed. Two
// BytesHasher values from separate NewBytesHasher calls hash differently.
type BytesHasher struct {
	seed maphash.Seed
}

// NewBytesHasher returns a BytesHasher with a fresh random maphash seed.
func NewBytesHasher() *BytesHasher {
	return &BytesHasher{seed: maphash.MakeSeed()}
}

func (h *BytesHasher) Hash(key []byte, seed uint32) uint64 {
	var mh maphash.Hash
	mh.SetSeed(h.seed)
	mh.Write(key)
	return bhash(mh.Sum64(), seed)
}

// StringHasher hashes string keys with maphash; see BytesHasher.
type StringHasher struct {
	seed maphash.Seed
}

// NewStringHasher returns a StringHasher with a fresh random maphash seed.
func NewStringHasher() *StringHasher {
	return &StringHasher{seed: maphash.MakeSeed()}
}

func (h *StringHasher) Hash(key string, seed uint32) uint64 {
	var mh maphash.Hash
	mh.SetSeed(h.seed)
	mh.WriteString(key)
	return bhash(mh.Sum64(), seed)
}

// RuneHasher is the default Hasher for rune (int32) keys.
type RuneHasher struct{}

func (RuneHasher) Hash(key rune, seed uint32) uint64 { return bhash(uint64(uint32(key)), seed) }
