package fmph

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// KeySet is the capability set the FMPH builder requires from a source
// of keys (spec §4.8): a count, a way to visit every live key, and a
// way to discard keys that have already been placed at a level. Sources
// that can visit or retain concurrently advertise it so the builder can
// pick the sequential fallback otherwise.
type KeySet[K any] interface {
	// Len returns the number of currently-live keys, in O(1).
	Len() int
	// ForEachKey calls visit once for every live key.
	ForEachKey(visit func(key K))
	// HasParForEachKey reports whether ParForEachKey actually runs
	// concurrently; if false, callers should use ForEachKey instead.
	HasParForEachKey() bool
	// ParForEachKey is the concurrent counterpart of ForEachKey. visit
	// must be safe for concurrent use.
	ParForEachKey(visit func(key K))
	// RetainKeys discards every key for which keep returns false.
	RetainKeys(keep func(key K) bool)
	// HasParRetainKeys reports whether ParRetainKeys actually runs
	// concurrently.
	HasParRetainKeys() bool
	// ParRetainKeys is the concurrent counterpart of RetainKeys. keep
	// must be safe for concurrent use.
	ParRetainKeys(keep func(key K) bool)
}

// indexRetainer is an optional capability (spec §4.8's
// retain_with_indices): a KeySet that can decide retention from the
// bit_indices the builder already computed for the current level,
// instead of re-hashing each key.
type indexRetainer interface {
	RetainAtIndices(keep func(i int) bool)
}

func shardBounds(n, workers int) [][2]int {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers
	bounds := make([][2]int, 0, workers)
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		bounds = append(bounds, [2]int{start, end})
	}
	return bounds
}

// SliceKeySet is a KeySet backed by a mutable slice owned by the
// caller. RetainKeys and ParRetainKeys compact it in place; the input
// slice may therefore be reordered and shortened during construction
// (mirroring the original's SliceMutSource).
type SliceKeySet[K any] struct {
	keys []K
}

// NewSliceKeySet wraps keys as a KeySet. keys is taken by reference and
// reordered/truncated in place as the builder retains fewer keys.
func NewSliceKeySet[K any](keys []K) *SliceKeySet[K] {
	return &SliceKeySet[K]{keys: keys}
}

func (s *SliceKeySet[K]) Len() int { return len(s.keys) }

func (s *SliceKeySet[K]) ForEachKey(visit func(key K)) {
	for _, k := range s.keys {
		visit(k)
	}
}

func (s *SliceKeySet[K]) HasParForEachKey() bool { return true }

func (s *SliceKeySet[K]) ParForEachKey(visit func(key K)) {
	bounds := shardBounds(len(s.keys), runtime.GOMAXPROCS(0))
	var g errgroup.Group
	for _, b := range bounds {
		b := b
		g.Go(func() error {
			for _, k := range s.keys[b[0]:b[1]] {
				visit(k)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *SliceKeySet[K]) RetainKeys(keep func(key K) bool) {
	write := 0
	for _, k := range s.keys {
		if keep(k) {
			s.keys[write] = k
			write++
		}
	}
	s.keys = s.keys[:write]
}

func (s *SliceKeySet[K]) HasParRetainKeys() bool { return true }

func (s *SliceKeySet[K]) ParRetainKeys(keep func(key K) bool) {
	n := len(s.keys)
	bounds := shardBounds(n, runtime.GOMAXPROCS(0))
	kept := make([]int, len(bounds))

	var g errgroup.Group
	for si, b := range bounds {
		si, b := si, b
		g.Go(func() error {
			lo := b[0]
			for i := b[0]; i < b[1]; i++ {
				if keep(s.keys[i]) {
					s.keys[lo] = s.keys[i]
					lo++
				}
			}
			kept[si] = lo - b[0]
			return nil
		})
	}
	_ = g.Wait()

	write := 0
	for si, b := range bounds {
		n := kept[si]
		if n == 0 {
			continue
		}
		if write != b[0] {
			copy(s.keys[write:write+n], s.keys[b[0]:b[0]+n])
		}
		write += n
	}
	s.keys = s.keys[:write]
}

// RetainAtIndices implements indexRetainer.
func (s *SliceKeySet[K]) RetainAtIndices(keep func(i int) bool) {
	write := 0
	for i, k := range s.keys {
		if keep(i) {
			s.keys[write] = k
			write++
		}
	}
	s.keys = s.keys[:write]
}

// RefKeySet is a read-only KeySet backed by a slice the caller does not
// want mutated: liveness is tracked with a side index rather than
// compaction of the original slice (the Go counterpart of the
// original's zero-copy segmented-delta-index slice source, simplified
// to a plain index slice — see DESIGN.md).
type RefKeySet[K any] struct {
	keys  []K
	alive []int
}

// NewRefKeySet wraps keys without mutating it.
func NewRefKeySet[K any](keys []K) *RefKeySet[K] {
	alive := make([]int, len(keys))
	for i := range alive {
		alive[i] = i
	}
	return &RefKeySet[K]{keys: keys, alive: alive}
}

func (s *RefKeySet[K]) Len() int { return len(s.alive) }

func (s *RefKeySet[K]) ForEachKey(visit func(key K)) {
	for _, i := range s.alive {
		visit(s.keys[i])
	}
}

func (s *RefKeySet[K]) HasParForEachKey() bool { return true }

func (s *RefKeySet[K]) ParForEachKey(visit func(key K)) {
	bounds := shardBounds(len(s.alive), runtime.GOMAXPROCS(0))
	var g errgroup.Group
	for _, b := range bounds {
		b := b
		g.Go(func() error {
			for _, i := range s.alive[b[0]:b[1]] {
				visit(s.keys[i])
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *RefKeySet[K]) RetainKeys(keep func(key K) bool) {
	write := 0
	for _, i := range s.alive {
		if keep(s.keys[i]) {
			s.alive[write] = i
			write++
		}
	}
	s.alive = s.alive[:write]
}

func (s *RefKeySet[K]) HasParRetainKeys() bool { return true }

func (s *RefKeySet[K]) ParRetainKeys(keep func(key K) bool) {
	n := len(s.alive)
	bounds := shardBounds(n, runtime.GOMAXPROCS(0))
	kept := make([][]int, len(bounds))

	var g errgroup.Group
	for si, b := range bounds {
		si, b := si, b
		g.Go(func() error {
			local := make([]int, 0, b[1]-b[0])
			for _, i := range s.alive[b[0]:b[1]] {
				if keep(s.keys[i]) {
					local = append(local, i)
				}
			}
			kept[si] = local
			return nil
		})
	}
	_ = g.Wait()

	write := s.alive[:0]
	for _, local := range kept {
		write = append(write, local...)
	}
	s.alive = write
}

func (s *RefKeySet[K]) RetainAtIndices(keep func(i int) bool) {
	write := 0
	for pos, i := range s.alive {
		if keep(pos) {
			s.alive[write] = i
			write++
		}
	}
	s.alive = s.alive[:write]
}

// CachedKeySet adapts a streaming key source (an each-style push
// iterator) into a KeySet, caching it into a plain SliceKeySet once its
// size drops to cacheThreshold or below (spec §4.8, "Dynamic
// iterator-backed source ... switches to a cached vector once below a
// threshold").
type CachedKeySet[K any] struct {
	source         func(visit func(K) bool)
	length         int
	cacheThreshold int
	cached         *SliceKeySet[K]
}

// NewCachedKeySet wraps a streaming source that calls visit for each
// live key, stopping early if visit returns false (mirroring a
// for-each-with-early-exit iterator). length must be the exact initial
// key count.
func NewCachedKeySet[K any](source func(visit func(K) bool), length, cacheThreshold int) *CachedKeySet[K] {
	s := &CachedKeySet[K]{source: source, length: length, cacheThreshold: cacheThreshold}
	if length <= cacheThreshold {
		cached := make([]K, 0, length)
		source(func(k K) bool { cached = append(cached, k); return true })
		s.cached = NewSliceKeySet(cached)
	}
	return s
}

func (s *CachedKeySet[K]) Len() int {
	if s.cached != nil {
		return s.cached.Len()
	}
	return s.length
}

func (s *CachedKeySet[K]) ForEachKey(visit func(key K)) {
	if s.cached != nil {
		s.cached.ForEachKey(visit)
		return
	}
	s.source(func(k K) bool { visit(k); return true })
}

func (s *CachedKeySet[K]) HasParForEachKey() bool {
	return s.cached != nil
}

func (s *CachedKeySet[K]) ParForEachKey(visit func(key K)) {
	if s.cached != nil {
		s.cached.ParForEachKey(visit)
		return
	}
	s.ForEachKey(visit)
}

func (s *CachedKeySet[K]) RetainKeys(keep func(key K) bool) {
	if s.cached != nil {
		s.cached.RetainKeys(keep)
		return
	}
	kept := make([]K, 0, s.length)
	s.source(func(k K) bool {
		if keep(k) {
			kept = append(kept, k)
		}
		return true
	})
	s.length = len(kept)
	if s.length <= s.cacheThreshold {
		s.cached = NewSliceKeySet(kept)
	} else {
		s.source = func(visit func(K) bool) {
			for _, k := range kept {
				if !visit(k) {
					return
				}
			}
		}
	}
}

func (s *CachedKeySet[K]) HasParRetainKeys() bool {
	return s.cached != nil
}

func (s *CachedKeySet[K]) ParRetainKeys(keep func(key K) bool) {
	if s.cached != nil {
		s.cached.ParRetainKeys(keep)
		return
	}
	s.RetainKeys(keep)
}
