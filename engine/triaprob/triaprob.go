// Package triaprob implements a fixed-capacity hash set using triangular
// probing: the probe sequence visits (home + i(i-1)/2) mod N, which only
// guarantees full coverage when N is a power of two. Buckets are
// three-state (empty, value, tombstone) since there is no backward-shift
// deletion available to this scheme.
package triaprob

import (
	"errors"
	"fmt"

	"github.com/rphmeier/hashset-bench/bitutil"
	"github.com/rphmeier/hashset-bench/engine"
	"github.com/rphmeier/hashset-bench/hashfn"
	"github.com/rphmeier/hashset-bench/meta"
)

// ErrInvalidCapacity signals a non-positive capacity was requested.
var ErrInvalidCapacity = errors.New("capacity must be positive")

type state uint8

const (
	stateEmpty state = iota
	stateValue
	stateTombstone
)

type bucket struct {
	key   uint64
	state state
}

// TriaProb is a fixed-capacity triangular-probing hash set.
type TriaProb struct {
	hasher   hashfn.Func
	buckets  []bucket
	meta     *meta.MetaMap
	length   int
	capacity uint64
}

// New constructs a TriaProb set. capacity is rounded up to the next
// power of two, since the triangular sequence only visits every bucket
// when N is a power of two; this is a silent, documented adjustment
// rather than a rejection.
func New(capacity uint64, metaBits uint) (*TriaProb, error) {
	if capacity == 0 {
		return nil, fmt.Errorf("%w: got 0", ErrInvalidCapacity)
	}
	capacity = bitutil.NextPowerOf2(capacity)
	fam := hashfn.NewFamilyRandom(1)
	return &TriaProb{
		hasher:   fam.Func(0),
		buckets:  make([]bucket, capacity),
		meta:     meta.New(capacity, metaBits),
		capacity: capacity,
	}, nil
}

func (t *TriaProb) Len() int      { return t.length }
func (t *TriaProb) Capacity() int { return int(t.capacity) }
func (t *TriaProb) LoadFactor() float64 {
	return float64(t.length) / float64(t.capacity)
}

func (t *TriaProb) home(key uint64) uint64 {
	return t.hasher(key) % t.capacity
}

func (t *TriaProb) setValue(idx uint64, key uint64, hash uint64) {
	t.buckets[idx] = bucket{key: key, state: stateValue}
	t.meta.SetFull(idx, meta.Hash(hash))
}

func (t *TriaProb) setTombstone(idx uint64) {
	t.buckets[idx] = bucket{state: stateTombstone}
	t.meta.SetTombstone(idx)
}

// probeSearch walks the triangular sequence looking only for key itself
// or a genuine empty bucket. Tombstones are transparent: the search
// continues past them, since a live key may legitimately sit further
// along the sequence than a tombstone left by an earlier removal.
func (t *TriaProb) probeSearch(key uint64) (idx uint64, found bool, probes int) {
	hash := t.hasher(key)
	home := hash % t.capacity
	var offset uint64

	for i := uint64(0); i < t.capacity; i++ {
		offset += i
		cur := (home + offset) % t.capacity

		if t.meta.HintEmpty(cur) {
			return 0, false, probes
		}
		if t.meta.HintTombstone(cur) {
			continue
		}
		if t.meta.HintNotMatch(cur, hash) {
			continue
		}

		probes++
		b := t.buckets[cur]
		switch b.state {
		case stateValue:
			if b.key == key {
				return cur, true, probes
			}
		case stateEmpty:
			// Only reachable with meta_bits == 0.
			return 0, false, probes
		case stateTombstone:
			// Only reachable with meta_bits < 2; nothing to do but
			// continue past it.
		}
	}
	return 0, false, probes
}

// probeInsert walks the same sequence but also tracks the first
// empty-or-tombstone slot seen as a placement candidate, without
// stopping there: the scan continues until key is confirmed present (a
// duplicate), an empty bucket confirms it absent, or the whole sequence
// has been exhausted, so a key living
// past a tombstone is never shadowed by a duplicate insert landing on
// that tombstone first.
func (t *TriaProb) probeInsert(key uint64) (idx uint64, candidateFound bool, duplicate bool, probes int) {
	hash := t.hasher(key)
	home := hash % t.capacity
	var offset uint64
	var candidate uint64
	haveCandidate := false

scan:
	for i := uint64(0); i < t.capacity; i++ {
		offset += i
		cur := (home + offset) % t.capacity

		if t.meta.HintEmpty(cur) {
			if !haveCandidate {
				candidate, haveCandidate = cur, true
			}
			break
		}
		if t.meta.HintTombstone(cur) {
			if !haveCandidate {
				candidate, haveCandidate = cur, true
			}
			continue
		}
		if t.meta.HintNotMatch(cur, hash) {
			continue
		}

		probes++
		b := t.buckets[cur]
		switch b.state {
		case stateValue:
			if b.key == key {
				return cur, false, true, probes
			}
		case stateEmpty:
			// Only reachable with meta_bits == 0.
			if !haveCandidate {
				candidate, haveCandidate = cur, true
			}
			break scan
		case stateTombstone:
			// Only reachable with meta_bits < 2.
			if !haveCandidate {
				candidate, haveCandidate = cur, true
			}
		}
	}

	if haveCandidate {
		return candidate, true, false, probes
	}
	return 0, false, false, probes
}

// Probe looks up key.
func (t *TriaProb) Probe(key uint64) engine.Probe {
	_, found, probes := t.probeSearch(key)
	return engine.Probe{Contained: found, Probes: probes}
}

// Insert places key at the first empty-or-tombstone slot on its
// triangular sequence, unless the key is already present further along
// the same sequence, in which case it's a no-op.
func (t *TriaProb) Insert(key uint64) engine.Update {
	idx, candidateFound, duplicate, probes := t.probeInsert(key)
	update := engine.Update{TotalProbes: probes, Completed: true}

	if duplicate {
		return update
	}
	if !candidateFound {
		update.Completed = false
		return update
	}

	t.length++
	t.setValue(idx, key, t.hasher(key))
	update.TotalWrites = 1
	return update
}

// Remove locates key via probeSearch and overwrites it with a
// tombstone. An absent key is a no-op that reports completed=false,
// per contract for this engine specifically.
func (t *TriaProb) Remove(key uint64) engine.Update {
	idx, found, probes := t.probeSearch(key)
	update := engine.Update{TotalProbes: probes}

	if !found {
		update.Completed = false
		return update
	}

	t.length--
	t.setTombstone(idx)
	update.TotalWrites = 1
	update.Completed = true
	return update
}
