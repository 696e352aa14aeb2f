// Package bench is the benchmark driver: it grows, probes, and churns an
// engine.Map under synthetic key traffic and records probe/write
// telemetry as HDR histograms, writing per-engine CSV summaries.
package bench

import (
	"math/rand/v2"
)

// KeySet is a monotonic producer of distinct uint64 keys, tracked as a
// pair of cursors. Keys in [min, max) have been pushed and not yet
// popped — the "live" range an engine is expected to hold.
type KeySet struct {
	min uint64
	max uint64
}

// Len reports the number of live keys tracked (max - min).
func (k *KeySet) Len() int {
	return int(k.max - k.min)
}

// Push mints a fresh key and returns it.
func (k *KeySet) Push() uint64 {
	key := k.max
	k.max++
	return key
}

// Pop consumes the oldest live key and returns it. Panics if the set is
// empty, mirroring the prototype's assertion that pop is never called
// on an empty KeySet.
func (k *KeySet) Pop() uint64 {
	if k.max <= k.min {
		panic("bench: Pop called on an empty KeySet")
	}
	key := k.min
	k.min++
	return key
}

// Existing samples a key uniformly from (min, max): any live key except
// the oldest.
func (k *KeySet) Existing() uint64 {
	if k.max <= k.min+1 {
		panic("bench: Existing called on a KeySet with fewer than two live keys")
	}
	return k.min + 1 + rand.Uint64N(k.max-k.min-1)
}

// Nonexisting samples a key uniformly from [max, 2^64).
func (k *KeySet) Nonexisting() uint64 {
	width := ^uint64(0) - k.max
	if width == 0 {
		return k.max
	}
	return k.max + rand.Uint64N(width)
}
