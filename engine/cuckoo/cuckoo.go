// Package cuckoo implements a fixed-capacity 2-ary cuckoo hash set: each
// key has two candidate buckets, and a colliding insert evicts the
// incumbent and retries it at its other bucket, up to engine.MaxChain
// hops. MetaMap stores a hash fingerprint per bucket to filter reads.
package cuckoo

import (
	"errors"
	"fmt"

	"github.com/rphmeier/hashset-bench/engine"
	"github.com/rphmeier/hashset-bench/hashfn"
	"github.com/rphmeier/hashset-bench/meta"
)

// hasherCount bounds the rehash pool used to break ties when a key's
// first two hashers land on the same bucket.
const hasherCount = 5

// ErrInvalidCapacity signals a non-positive capacity was requested.
var ErrInvalidCapacity = errors.New("capacity must be positive")

// Cuckoo is a fixed-capacity 2-ary cuckoo hash set.
type Cuckoo struct {
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

// New constructs a Cuckoo set with the given fixed capacity and MetaMap
// bit width.
func New(capacity uint64, metaBits uint) (*Cuckoo, error) {
	if capacity == 0 {
		return nil, fmt.Errorf("%w: got 0", ErrInvalidCapacity)
	}
	return &Cuckoo{
		hashers:  hashfn.NewFamilyRandom(hasherCount),
		buckets:  make([]slot, capacity),
		meta:     meta.New(capacity, metaBits),
		capacity: capacity,
	}, nil
}

func (c *Cuckoo) Len() int      { return c.length }
func (c *Cuckoo) Capacity() int { return int(c.capacity) }
func (c *Cuckoo) LoadFactor() float64 {
	return float64(c.length) / float64(c.capacity)
}

// pair bundles a key's primary hash with its two candidate buckets.
type pair struct {
	hash    uint64
	bucketA uint64
	bucketB uint64
}

// locations returns key's primary hash and its two distinct candidate
// buckets, pulling further hashers from the family if the first two
// happen to collide.
func (c *Cuckoo) locations(key uint64) pair {
	hashA := c.hashers.Hash(0, key)
	bucketA := hashA % c.capacity
	bucketB := bucketA

	cur := 0
	for bucketB == bucketA {
		cur++
		if cur >= c.hashers.Len() {
			cur = c.hashers.Len() - 1
			break
		}
		bucketB = c.hashers.Hash(cur, key) % c.capacity
	}
	return pair{hash: hashA, bucketA: bucketA, bucketB: bucketB}
}

func (c *Cuckoo) setBucket(idx uint64, key uint64, hash uint64) {
	c.buckets[idx] = slot{key: key, occupied: true}
	c.meta.SetFull(idx, meta.Hash(hash))
}

func (c *Cuckoo) clearBucket(idx uint64) {
	c.buckets[idx] = slot{}
	c.meta.SetEmpty(idx)
}

// Probe looks up key, consulting the fingerprint hint before each bucket
// read.
func (c *Cuckoo) Probe(key uint64) engine.Probe {
	loc := c.locations(key)
	probes := 0

	if !c.meta.HintNotMatch(loc.bucketA, loc.hash) {
		probes++
		if c.buckets[loc.bucketA].occupied && c.buckets[loc.bucketA].key == key {
			return engine.Probe{Contained: true, Probes: probes}
		}
	}
	if !c.meta.HintNotMatch(loc.bucketB, loc.hash) {
		probes++
		if c.buckets[loc.bucketB].occupied && c.buckets[loc.bucketB].key == key {
			return engine.Probe{Contained: true, Probes: probes}
		}
	}
	return engine.Probe{Contained: false, Probes: probes}
}

// Insert places key, evicting and relocating incumbents along a cuckoo
// chain of at most engine.MaxChain hops. The presence check ahead of the
// chain only inspects bucket B, preserving the source algorithm's
// asymmetry; a key already sitting at bucket A is caught by the chain's
// first step, which reads bucket A and returns without changing len.
func (c *Cuckoo) Insert(key uint64) engine.Update {
	update := engine.Update{TotalWrites: 1, Completed: true}

	active := key
	useBucketA := true
	loc := c.locations(key)

	if !c.meta.HintNotMatch(loc.bucketB, loc.hash) {
		update.TotalProbes++
		if c.buckets[loc.bucketB].occupied && c.buckets[loc.bucketB].key == key {
			return update
		}
	}

	c.length++

	for i := 0; i < engine.MaxChain; i++ {
		target := loc.bucketA
		if !useBucketA {
			target = loc.bucketB
		}

		if c.meta.HintEmpty(target) {
			if i > 0 {
				update.TotalWrites++
			}
			c.setBucket(target, active, loc.hash)
			return update
		}

		update.TotalProbes++
		occupant := c.buckets[target]
		if !occupant.occupied {
			if i > 0 {
				update.TotalWrites++
			}
			c.setBucket(target, active, loc.hash)
			return update
		}
		if occupant.key == active {
			// Only possible for the very first key: bucketA != bucketB
			// by construction, so a later active key can't re-collide
			// with itself this way.
			c.length--
			return update
		}

		if i > 0 {
			update.TotalWrites++
		}
		c.setBucket(target, active, loc.hash)
		swapKey := occupant.key

		nextLoc := c.locations(swapKey)
		useBucketA = nextLoc.bucketB == target
		active = swapKey
		loc = nextLoc
	}

	update.Completed = false
	return update
}

// Remove clears key from whichever of its two buckets holds it.
func (c *Cuckoo) Remove(key uint64) engine.Update {
	loc := c.locations(key)
	update := engine.Update{Completed: true}

	if !c.meta.HintNotMatch(loc.bucketA, loc.hash) {
		update.TotalProbes++
		if c.buckets[loc.bucketA].occupied && c.buckets[loc.bucketA].key == key {
			c.clearBucket(loc.bucketA)
			c.length--
			update.TotalWrites++
			return update
		}
	}
	if !c.meta.HintNotMatch(loc.bucketB, loc.hash) {
		update.TotalProbes++
		if c.buckets[loc.bucketB].occupied && c.buckets[loc.bucketB].key == key {
			c.clearBucket(loc.bucketB)
			c.length--
			update.TotalWrites++
			return update
		}
	}
	return update
}
