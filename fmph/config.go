package fmph

// DefaultCacheThreshold is the default BuildConf.CacheThreshold: below
// this many remaining keys, the builder caches their hashes for the
// rest of construction at the cost of 8 bytes per cached key (≈1GB at
// the default).
const DefaultCacheThreshold = 1024 * 1024 * 128

// MinRelativeLevelSize is the smallest RelativeLevelSize that is
// documented to guarantee construction terminates (spec §4.5, §9):
// below it, Builder accepts the value but termination is no longer
// provably guaranteed.
const MinRelativeLevelSize = 100

// BuildConf configures Function construction (spec §4.5).
type BuildConf[K any] struct {
	// Hasher is the seeded hash family used to place keys at each level.
	Hasher Hasher[K]

	// CacheThreshold is the remaining-key count below which hashes are
	// cached for the rest of the build, trading memory for speed.
	CacheThreshold int

	// RelativeLevelSize is each level's bit-array size as a percentage
	// of the level's input key count. 100 minimizes output size; larger
	// values trade size for faster lookups. Values below 100 are
	// accepted but termination is no longer guaranteed by construction
	// (spec §9, Open Questions) — callers that need a hard guarantee
	// should reject configurations under MinRelativeLevelSize themselves.
	RelativeLevelSize uint16

	// UseMultipleThreads enables the parallel bit-or/collision protocol
	// (spec §4.5) when the key set advertises parallel support.
	UseMultipleThreads bool
}

// DefaultBuildConf returns the default configuration for hasher:
// RelativeLevelSize 100, CacheThreshold DefaultCacheThreshold,
// UseMultipleThreads true.
func DefaultBuildConf[K any](hasher Hasher[K]) BuildConf[K] {
	return BuildConf[K]{
		Hasher:             hasher,
		CacheThreshold:     DefaultCacheThreshold,
		RelativeLevelSize:  MinRelativeLevelSize,
		UseMultipleThreads: true,
	}
}

// WithMultipleThreads returns a copy of c with UseMultipleThreads set.
func (c BuildConf[K]) WithMultipleThreads(use bool) BuildConf[K] {
	c.UseMultipleThreads = use
	return c
}

// WithCacheThreshold returns a copy of c with CacheThreshold set.
func (c BuildConf[K]) WithCacheThreshold(threshold int) BuildConf[K] {
	c.CacheThreshold = threshold
	return c
}

// WithRelativeLevelSize returns a copy of c with RelativeLevelSize set.
func (c BuildConf[K]) WithRelativeLevelSize(pct uint16) BuildConf[K] {
	c.RelativeLevelSize = pct
	return c
}
