// Package fmph implements a fingerprinting-based minimal perfect hash
// function (spec §4.5–§4.10): given a set of N keys, Function maps
// every input key to a distinct integer in [0, N). Construction stacks
// seeded bit-array levels, placing each level's collision-free keys and
// carrying the rest to the next level; lookup walks the same levels and
// answers with a rank1 query into the level where the key landed.
package fmph

import (
	"io"

	"github.com/bwesterb/go-succinct/internal/bitio"
	"github.com/bwesterb/go-succinct/internal/vbyte"
)

// Function is an immutable minimal perfect hash function built once
// from a key set (spec §4.6).
type Function[K any] struct {
	array      *bitArray
	levelSizes []uint64
	hasher     Hasher[K]
}

// WithConfStats builds a Function over keys using conf, reporting
// progress to stats. keys may be reordered or shrunk in place by
// construction (spec §4.5).
func WithConfStats[K any](keys KeySet[K], conf BuildConf[K], stats BuildStatsCollector) (*Function[K], error) {
	b := newBuilder(conf, keys)
	if err := b.buildLevels(keys, stats); err != nil {
		return nil, err
	}
	stats.End()

	levelSizes := make([]uint64, len(b.arrays))
	total := 0
	for i, arr := range b.arrays {
		levelSizes[i] = uint64(len(arr))
		total += len(arr)
	}
	words := make([]uint64, 0, total)
	for _, arr := range b.arrays {
		words = append(words, arr...)
	}

	return &Function[K]{
		array:      newBitArray(words),
		levelSizes: levelSizes,
		hasher:     conf.Hasher,
	}, nil
}

// WithConf builds a Function over keys using conf.
func WithConf[K any](keys KeySet[K], conf BuildConf[K]) (*Function[K], error) {
	return WithConfStats(keys, conf, NoOpBuildStats{})
}

// New builds a Function over keys using hasher and the default
// configuration.
func New[K any](keys KeySet[K], hasher Hasher[K]) (*Function[K], error) {
	return WithConf(keys, DefaultBuildConf(hasher))
}

// GetStats returns the index assigned to key, and reports which level
// it was found on to accessStats. The returned index is in
// [0, N) for any key that was in the input set; for other keys, the
// result is either ok=false or an unspecified value in that range
// (spec §4.6).
func (f *Function[K]) GetStats(key K, accessStats AccessStatsCollector) (uint64, bool) {
	arrayBegin := 0
	levelNr := uint32(0)
	for {
		if int(levelNr) >= len(f.levelSizes) {
			return 0, false
		}
		levelSize := int(f.levelSizes[levelNr]) << 6
		i := arrayBegin + index(key, f.hasher, levelNr, levelSize)
		if f.array.GetBit(i) {
			accessStats.FoundOnLevel(levelNr)
			return f.array.Rank1(i), true
		}
		arrayBegin += levelSize
		levelNr++
	}
}

// Get is GetStats without statistics.
func (f *Function[K]) Get(key K) (uint64, bool) {
	return f.GetStats(key, NoOpAccessStats{})
}

// LevelSizes returns the number of 64-bit words in each level's bit
// array, in build order.
func (f *Function[K]) LevelSizes() []uint64 {
	return f.levelSizes
}

// WriteBytes returns the number of bytes Write would write.
func (f *Function[K]) WriteBytes() int {
	return vbyte.ArrayLen64(f.levelSizes) + len(f.array.words)*8
}

// Write serializes f as level_sizes (VByte array) followed by the raw
// bit-array words in little-endian order (spec §4.10), using the
// internal/bitio writer (whose reader the Huffman decoder demo uses). The
// rank index is not
// persisted; Read rebuilds it.
func (f *Function[K]) Write(w io.Writer) error {
	if err := vbyte.WriteArray64(w, f.levelSizes); err != nil {
		return err
	}
	bw := bitio.NewWriter(w)
	for _, word := range f.array.words {
		bw.WriteWord(word)
	}
	return bw.Close()
}

// ReadWithHasher deserializes a Function written by Write. hasher must
// be the same hash family used to build it.
func ReadWithHasher[K any](r io.Reader, hasher Hasher[K]) (*Function[K], error) {
	br, ok := r.(byteReader)
	if !ok {
		br = newByteReaderAdapter(r)
	}
	levelSizes, err := vbyte.ReadArray64(br)
	if err != nil {
		return nil, err
	}
	var total uint64
	for _, ls := range levelSizes {
		total += ls
	}
	words := make([]uint64, total)
	bitReader := bitio.NewReader(r)
	for i := range words {
		words[i] = bitReader.ReadWord()
	}
	if err := bitReader.Err(); err != nil {
		return nil, err
	}
	return &Function[K]{
		array:      newBitArray(words),
		levelSizes: levelSizes,
		hasher:     hasher,
	}, nil
}

// byteReader is the subset of bufio.Reader that vbyte needs.
type byteReader interface {
	io.Reader
	io.ByteReader
}

// byteReaderAdapter adapts a plain io.Reader to io.ByteReader by
// reading one byte at a time, for callers of ReadWithHasher that did
// not already pass a buffered reader.
type byteReaderAdapter struct {
	r io.Reader
}

func newByteReaderAdapter(r io.Reader) byteReader {
	return &byteReaderAdapter{r: r}
}

func (a *byteReaderAdapter) Read(p []byte) (int, error) { return a.r.Read(p) }

func (a *byteReaderAdapter) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(a.r, buf[:])
	return buf[0], err
}
