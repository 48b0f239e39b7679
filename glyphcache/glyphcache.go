// Package glyphcache implements the generation-based memoization cache for
// rendered (and optionally blurred) glyph bitmaps.
//
// Grounded on gio's layoutCache/pathCache in
// _examples/gioui-gio/text/lru.go (and the shape-package twin in
// text/shape/lru.go): a map plus an intrusive doubly-linked list giving
// O(1) get/insert/remove and most-recently-used reordering. This package
// keeps that shape but replaces gio's fixed 1000-entry cap with the
// generation/byte-budget eviction policy described for the original
// subrandr glyph cache (src/text/glyph_cache.rs, not present in the
// retrieved pack as a standalone file, but fully specified by the
// distilled spec's §4.5): each produced entry is stamped with the
// generation current when it was last used; once the cache's total
// footprint exceeds Threshold, entries last used KeepGenerations or more
// generations ago are evicted oldest-first until back under budget.
package glyphcache

import "hash/maphash"

// Threshold is the approximate total footprint (in bytes) above which
// stale entries become eligible for eviction.
const Threshold = 2 << 20 // 2 MiB

// KeepGenerations is the number of most recent generations whose entries
// are never evicted, regardless of total footprint.
const KeepGenerations = 3

// entryOverhead approximates the size of an Entry's non-Texture fields,
// standing in for Rust's std::mem::size_of_val(self).
const entryOverhead = 64

// SubpixelAxis selects which axis a Key's fractional offset quantizes.
type SubpixelAxis uint8

const (
	AxisX SubpixelAxis = 0
	AxisY SubpixelAxis = 1
)

// SubpixelBucket quantizes a fractional pixel offset in [0, 1) to two bits
// (4 buckets), with the subpixel axis encoded in the result's low bit, so
// that two lookups agreeing on bucket value are guaranteed to render
// identically regardless of which axis carries the fraction.
func SubpixelBucket(axis SubpixelAxis, frac float32) uint8 {
	level := int(frac * 4)
	if level < 0 {
		level = 0
	} else if level > 3 {
		level = 3
	}
	return uint8(level<<1) | uint8(axis)
}

// Key identifies a cached glyph bitmap by every input that affects its
// pixels, matching spec §3's glyph cache key tuple. Face identity is a
// pointer-equality handle (the face is owned and shared externally), and
// the variation coordinate array is folded into a hash since Go map keys
// must be fixed-size and comparable, the same way gio's pathCache folds a
// variable-length glyph run into a uint64 via maphash (text/lru.go's
// hashGlyphs).
type Key struct {
	Face           uintptr
	PointSize      int32 // 26.6 fixed point
	DPI            uint16
	VariationHash  uint64
	GlyphID        uint32
	BlurSigmaBits  uint32 // math.Float32bits(sigma)
	SubpixelBucket uint8
}

// HashVariation folds a variable-length variation coordinate array (16.16
// fixed point per axis) into the fixed-size hash Key.VariationHash expects.
func HashVariation(coords []int32) uint64 {
	if len(coords) == 0 {
		return 0
	}
	var h maphash.Hash
	h.SetSeed(variationSeed)
	var b [4]byte
	for _, c := range coords {
		b[0] = byte(c)
		b[1] = byte(c >> 8)
		b[2] = byte(c >> 16)
		b[3] = byte(c >> 24)
		h.Write(b[:])
	}
	return h.Sum64()
}

var variationSeed = maphash.MakeSeed()

// Entry is a cached rendered glyph bitmap: an 8bpp coverage buffer plus the
// offset of its top-left corner from the glyph's nominal origin (nonzero
// once blurred, per spec §4.3/§4.5).
type Entry struct {
	Texture       []byte
	Width, Height int
	OffsetX       int
	OffsetY       int
}

type entry struct {
	next, prev *entry
	key        Key
	value      Entry
	generation uint64
}

func (e *entry) footprint() int { return entryOverhead + len(e.value.Texture) }

// Cache is a generation-tracked glyph bitmap cache. The zero value is
// ready to use.
type Cache struct {
	generation uint64
	m          map[Key]*entry
	head, tail *entry
	totalBytes int
}

// AdvanceGeneration bumps the cache's current generation, called once per
// rendered frame; entries last touched at or before the (generation -
// KeepGenerations) boundary become eligible for eviction the next time the
// cache exceeds Threshold.
func (c *Cache) AdvanceGeneration() { c.generation++ }

// Generation returns the cache's current generation counter.
func (c *Cache) Generation() uint64 { return c.generation }

func (c *Cache) ensureList() {
	if c.m != nil {
		return
	}
	c.m = make(map[Key]*entry)
	c.head = &entry{}
	c.tail = &entry{}
	c.head.prev = c.tail
	c.tail.next = c.head
}

func (c *Cache) remove(e *entry) {
	e.next.prev = e.prev
	e.prev.next = e.next
}

func (c *Cache) insertMostRecent(e *entry) {
	e.next = c.head
	e.prev = c.head.prev
	e.prev.next = e
	e.next.prev = e
}

// Get returns the cached entry for key, if present, marking it as used in
// the current generation.
func (c *Cache) Get(key Key) (Entry, bool) {
	e, ok := c.m[key]
	if !ok {
		return Entry{}, false
	}
	c.remove(e)
	e.generation = c.generation
	c.insertMostRecent(e)
	return e.value, true
}

// GetOrTryInsertWith returns the cached entry for key, producing and
// storing one via produce on a miss. If produce fails, nothing is cached
// and the error is returned.
func (c *Cache) GetOrTryInsertWith(key Key, produce func() (Entry, error)) (Entry, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := produce()
	if err != nil {
		return Entry{}, err
	}
	c.insert(key, v)
	return v, nil
}

func (c *Cache) insert(key Key, value Entry) {
	c.ensureList()
	e := &entry{key: key, value: value, generation: c.generation}
	c.m[key] = e
	c.insertMostRecent(e)
	c.totalBytes += e.footprint()
	c.evictIfOverBudget()
}

// evictIfOverBudget drops entries last used KeepGenerations or more
// generations ago, oldest-first, until the cache is back under Threshold
// or no more evictable entries remain.
func (c *Cache) evictIfOverBudget() {
	if c.totalBytes <= Threshold {
		return
	}
	cutoff := int64(c.generation) - KeepGenerations
	for c.totalBytes > Threshold {
		oldest := c.tail.next
		if oldest == c.head {
			return
		}
		if int64(oldest.generation) > cutoff {
			return
		}
		c.remove(oldest)
		delete(c.m, oldest.key)
		c.totalBytes -= oldest.footprint()
	}
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int { return len(c.m) }

// TotalBytes reports the cache's current approximate footprint.
func (c *Cache) TotalBytes() int { return c.totalBytes }
