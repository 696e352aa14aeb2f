// Package hashfn provides families of independent keyed 64-bit hash
// functions for uint64 keys, as needed by the cuckoo-style engines (each
// of which needs two or three statistically independent bucket choices
// per key).
//
// Each member of a Family is built by salting cespare/xxhash/v2 with a
// distinct 64-bit salt. The salts themselves are derived from a single
// seed using a multiplicative finalizer (see mix below), so a Family is
// fully reproducible from its seed without needing a dependency
// dedicated to salt derivation.
package hashfn

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// Func is a single keyed hash function over a uint64 key.
type Func func(key uint64) uint64

// mix implements MurmurHash3's 64-bit finalizer, used only to stretch a
// seed into a set of well-distributed, unrelated salts.
func mix(key uint64) uint64 {
	key ^= key >> 33
	key *= 0xff51afd7ed558ccd
	key ^= key >> 33
	key *= 0xc4ceb9fe1a85ec53
	key ^= key >> 33
	return key
}

// Family is a fixed-size collection of independent keyed hash functions.
type Family struct {
	salts []uint64
}

// NewFamily derives n independent salted hashers from seed. Identical
// (n, seed) pairs always produce an identical family.
func NewFamily(n int, seed uint64) *Family {
	salts := make([]uint64, n)
	state := mix(seed ^ 0x9E3779B97F4A7C15)
	for i := range salts {
		state = mix(state + uint64(i) + 0x9E3779B97F4A7C15)
		salts[i] = state
	}
	return &Family{salts: salts}
}

// NewFamilyRandom builds a family seeded from the process-global random
// source, for callers that don't need reproducibility.
func NewFamilyRandom(n int) *Family {
	return NewFamily(n, rand.Uint64())
}

// Len returns the number of independent hashers in the family.
func (f *Family) Len() int {
	return len(f.salts)
}

// Hash computes the i'th hasher's value for key.
func (f *Family) Hash(i int, key uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], f.salts[i])
	binary.LittleEndian.PutUint64(buf[8:16], key)
	return xxhash.Sum64(buf[:])
}

// Func returns the i'th hasher as a standalone Func value.
func (f *Family) Func(i int) Func {
	return func(key uint64) uint64 {
		return f.Hash(i, key)
	}
}
