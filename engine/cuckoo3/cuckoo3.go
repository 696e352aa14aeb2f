// Package cuckoo3 implements a fixed-capacity 3-ary cuckoo hash set: the
// global variant, where three independent hashes range over the whole
// bucket array and collisions between them are resolved by pulling
// further hashers from a pool until all three indices differ. Eviction
// picks uniformly among the alternatives still open to the active key.
package cuckoo3

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rphmeier/hashset-bench/engine"
	"github.com/rphmeier/hashset-bench/hashfn"
	"github.com/rphmeier/hashset-bench/meta"
)

// hasherCount covers the three primary hashers plus a pool for
// collision-rehashing.
const hasherCount = 6

// ErrInvalidCapacity signals a non-positive capacity was requested.
var ErrInvalidCapacity = errors.New("capacity must be positive")

// ThreeAryCuckoo is a fixed-capacity 3-ary cuckoo hash set (global
// variant: all three hashes range over the full bucket array).
type ThreeAryCuckoo struct {
	hashers  *hashfn.Family
	buckets  []slot
	meta     *meta.MetaMap
	length   int
	capacity uint64
}

type slot struct {
	key      uint64
	occupied bool
}

// New constructs a ThreeAryCuckoo set with the given fixed capacity and
// MetaMap bit width.
func New(capacity uint64, metaBits uint) (*ThreeAryCuckoo, error) {
	if capacity == 0 {
		return nil, fmt.Errorf("%w: got 0", ErrInvalidCapacity)
	}
	return &ThreeAryCuckoo{
		hashers:  hashfn.NewFamilyRandom(hasherCount),
		buckets:  make([]slot, capacity),
		meta:     meta.New(capacity, metaBits),
		capacity: capacity,
	}, nil
}

func (c *ThreeAryCuckoo) Len() int      { return c.length }
func (c *ThreeAryCuckoo) Capacity() int { return int(c.capacity) }
func (c *ThreeAryCuckoo) LoadFactor() float64 {
	return float64(c.length) / float64(c.capacity)
}

// triple bundles a key's primary hash with its three distinct candidate
// buckets.
type triple struct {
	hash    uint64
	buckets [3]uint64
}

func (c *ThreeAryCuckoo) locations(key uint64) triple {
	h := func(i int) uint64 { return c.hashers.Hash(i, key) % c.capacity }

	hashA := c.hashers.Hash(0, key)
	bucketA := hashA % c.capacity
	bucketB := h(1)
	bucketC := h(2)

	next := 3
	pull := func() uint64 {
		v := h(next)
		next++
		if next >= c.hashers.Len() {
			next = c.hashers.Len() - 1
		}
		return v
	}

	for bucketB == bucketA {
		bucketB = pull()
	}
	for bucketC == bucketA || bucketC == bucketB {
		bucketC = pull()
	}

	return triple{hash: hashA, buckets: [3]uint64{bucketA, bucketB, bucketC}}
}

func (c *ThreeAryCuckoo) setBucket(idx uint64, key uint64, hash uint64) {
	c.buckets[idx] = slot{key: key, occupied: true}
	c.meta.SetFull(idx, meta.Hash(hash))
}

func (c *ThreeAryCuckoo) clearBucket(idx uint64) {
	c.buckets[idx] = slot{}
	c.meta.SetEmpty(idx)
}

// Probe looks up key across its three candidate buckets, each guarded by
// a fingerprint hint.
func (c *ThreeAryCuckoo) Probe(key uint64) engine.Probe {
	loc := c.locations(key)
	probes := 0

	for _, b := range loc.buckets {
		if c.meta.HintNotMatch(b, loc.hash) {
			continue
		}
		probes++
		if c.buckets[b].occupied && c.buckets[b].key == key {
			return engine.Probe{Contained: true, Probes: probes}
		}
	}
	return engine.Probe{Contained: false, Probes: probes}
}

// Insert places key, evicting and relocating incumbents along a cuckoo
// chain of at most engine.MaxChain hops. Each candidate bucket is
// presence-checked against its own index (unlike the buggy source
// revision this engine is ported from, which mistakenly re-read bucket B
// for all three checks).
func (c *ThreeAryCuckoo) Insert(key uint64) engine.Update {
	update := engine.Update{TotalWrites: 1, Completed: true}

	active := key
	loc := c.locations(key)

	for _, b := range loc.buckets {
		if c.meta.HintNotMatch(b, loc.hash) {
			continue
		}
		update.TotalProbes++
		if c.buckets[b].occupied && c.buckets[b].key == key {
			return update
		}
	}

	c.length++

	eligible := [3]bool{true, true, true}

	for i := 0; i < engine.MaxChain; i++ {
		for slotIdx, b := range loc.buckets {
			if !eligible[slotIdx] {
				continue
			}
			if c.meta.HintEmpty(b) {
				if i > 0 {
					update.TotalWrites++
				}
				c.setBucket(b, active, loc.hash)
				return update
			}
			if c.meta.Bits() == 0 {
				update.TotalProbes++
				if !c.buckets[b].occupied {
					if i > 0 {
						update.TotalWrites++
					}
					c.setBucket(b, active, loc.hash)
					return update
				}
			}
		}

		evictSlot := rand.IntN(3)
		for !eligible[evictSlot] {
			evictSlot = rand.IntN(3)
		}
		evictBucket := loc.buckets[evictSlot]

		if c.meta.Bits() > 0 {
			update.TotalProbes++
		}

		swapKey := c.buckets[evictBucket].key
		if i > 0 {
			update.TotalWrites++
		}
		c.setBucket(evictBucket, active, loc.hash)

		nextLoc := c.locations(swapKey)
		eligible = [3]bool{true, true, true}
		for slotIdx, b := range nextLoc.buckets {
			if b == evictBucket {
				eligible[slotIdx] = false
			}
		}

		active = swapKey
		loc = nextLoc
	}

	update.Completed = false
	return update
}

// Remove clears key from whichever of its three buckets holds it.
func (c *ThreeAryCuckoo) Remove(key uint64) engine.Update {
	loc := c.locations(key)
	update := engine.Update{Completed: true}

	for _, b := range loc.buckets {
		if c.meta.HintNotMatch(b, loc.hash) {
			continue
		}
		update.TotalProbes++
		if c.buckets[b].occupied && c.buckets[b].key == key {
			c.clearBucket(b)
			c.length--
			update.TotalWrites++
			return update
		}
	}
	return update
}
