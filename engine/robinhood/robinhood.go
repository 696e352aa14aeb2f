// Package robinhood implements a fixed-capacity, linear-probed hash set
// with Robin Hood displacement and backward-shift deletion, accelerated
// by a meta.MetaMap holding a per-bucket probe-sequence-length hint.
//
// Specialized to a single fixed-capacity uint64 key set (no resize, no
// value slot) and wired to the MetaMap skip-read optimization.
package robinhood

import (
	"errors"
	"fmt"

	"github.com/rphmeier/hashset-bench/engine"
	"github.com/rphmeier/hashset-bench/hashfn"
	"github.com/rphmeier/hashset-bench/meta"
)

// ErrInvalidCapacity signals a non-positive capacity was requested.
var ErrInvalidCapacity = errors.New("capacity must be positive")

type bucket struct {
	key      uint64
	occupied bool
}

// RobinHood is a fixed-capacity hash set using linear probing with Robin
// Hood hashing as its collision strategy: buckets are scanned linearly
// from a key's home, and whichever candidate has travelled further from
// its own home (the higher PSL) keeps the slot, displacing the other.
type RobinHood struct {
	buckets  []bucket
	meta     *meta.MetaMap
	hasher   hashfn.Func
	length   int
	capacity uint64
}

// New constructs a RobinHood set with the given fixed capacity and
// MetaMap bit width.
func New(capacity uint64, metaBits uint) (*RobinHood, error) {
	if capacity == 0 {
		return nil, fmt.Errorf("%w: got 0", ErrInvalidCapacity)
	}
	fam := hashfn.NewFamilyRandom(1)
	return &RobinHood{
		buckets:  make([]bucket, capacity),
		meta:     meta.New(capacity, metaBits),
		hasher:   fam.Func(0),
		capacity: capacity,
	}, nil
}

func (r *RobinHood) Len() int      { return r.length }
func (r *RobinHood) Capacity() int { return int(r.capacity) }
func (r *RobinHood) LoadFactor() float64 {
	return float64(r.length) / float64(r.capacity)
}

func (r *RobinHood) home(key uint64) uint64 {
	return r.hasher(key) % r.capacity
}

func (r *RobinHood) next(idx uint64) uint64 {
	idx++
	if idx == r.capacity {
		return 0
	}
	return idx
}

// pslOf returns the 1-based probe sequence length of key if it were
// sitting at bucket idx.
func (r *RobinHood) pslOf(key uint64, idx uint64) int {
	home := r.home(key)
	if idx < home {
		return int((idx+r.capacity)-home) + 1
	}
	return int(idx-home) + 1
}

// Probe looks up key, consulting the MetaMap's PSL hint to skip bucket
// reads whenever the stored PSL already proves the key can't be here.
func (r *RobinHood) Probe(key uint64) engine.Probe {
	idx := r.home(key)
	psl := 1
	probes := 0

	for {
		if r.meta.Bits() > 0 {
			hint := r.meta.HintPSL(idx)
			if hint.IsNone() {
				return engine.Probe{Contained: false, Probes: probes}
			}
			if hint.Kind == meta.PSLHintExact {
				switch {
				case hint.Value < psl:
					return engine.Probe{Contained: false, Probes: probes}
				case hint.Value > psl:
					idx = r.next(idx)
					psl++
					continue
				}
			} else if hint.Value > psl {
				// AtLeast(p) with p > psl: actual PSL exceeds ours either way.
				idx = r.next(idx)
				psl++
				continue
			}
		}

		probes++
		b := r.buckets[idx]
		if !b.occupied {
			return engine.Probe{Contained: false, Probes: probes}
		}
		if b.key == key {
			return engine.Probe{Contained: true, Probes: probes}
		}
		if r.pslOf(b.key, idx) < psl {
			return engine.Probe{Contained: false, Probes: probes}
		}
		idx = r.next(idx)
		psl++
	}
}

func (r *RobinHood) writeBucket(idx uint64, key uint64, psl int) {
	r.buckets[idx] = bucket{key: key, occupied: true}
	r.meta.SetFull(idx, meta.PSL(psl))
}

// Insert places key, applying the Robin Hood creed: whichever of the
// active candidate and the bucket's current occupant has travelled
// further from its own home keeps the bucket; the loser continues the
// search carrying its own PSL forward. Re-inserting an already-present
// key is a no-op (after an initial speculative length bump is undone).
func (r *RobinHood) Insert(key uint64) engine.Update {
	update := engine.Update{Completed: true}

	idx := r.home(key)
	psl := 1
	active := key
	r.length++

	for {
		if r.meta.Bits() > 0 {
			hint := r.meta.HintPSL(idx)
			if hint.IsNone() {
				r.writeBucket(idx, active, psl)
				update.TotalWrites++
				return update
			}
			if hint.Kind == meta.PSLHintExact && hint.Value > psl {
				idx = r.next(idx)
				psl++
				continue
			}
			if hint.Kind == meta.PSLHintAtLeast && hint.Value > psl {
				idx = r.next(idx)
				psl++
				continue
			}
		}

		update.TotalProbes++
		b := r.buckets[idx]
		if !b.occupied {
			r.writeBucket(idx, active, psl)
			update.TotalWrites++
			return update
		}
		if b.key == active {
			if active == key {
				r.length--
			}
			return update
		}

		occupantPSL := r.pslOf(b.key, idx)
		if occupantPSL < psl {
			evicted := b.key
			r.writeBucket(idx, active, psl)
			update.TotalWrites++
			active = evicted
			psl = occupantPSL
		}

		idx = r.next(idx)
		psl++
	}
}

// Remove deletes key via backward-shift: the hole left behind is filled
// by shifting every following bucket with a non-home PSL down by one,
// stopping at the first empty bucket or home-bucket occupant.
func (r *RobinHood) Remove(key uint64) engine.Update {
	p := r.Probe(key)
	update := engine.Update{TotalProbes: p.Probes, Completed: true}
	if !p.Contained {
		return update
	}

	// Probe doesn't return the bucket index, recompute it cheaply.
	idx := r.locate(key)

	r.length--
	r.buckets[idx] = bucket{}
	r.meta.SetEmpty(idx)
	update.TotalWrites++

	cur := idx
	for {
		nxt := r.next(cur)
		nb := r.buckets[nxt]
		if !nb.occupied {
			return update
		}
		update.TotalProbes++
		if r.pslOf(nb.key, nxt) == 1 {
			return update
		}
		r.writeBucket(cur, nb.key, r.pslOf(nb.key, nxt)-1)
		r.buckets[nxt] = bucket{}
		r.meta.SetEmpty(nxt)
		update.TotalWrites++
		cur = nxt
	}
}

// locate finds the bucket index currently holding key. key is assumed
// present (callers check via Probe first).
func (r *RobinHood) locate(key uint64) uint64 {
	idx := r.home(key)
	for {
		b := r.buckets[idx]
		if b.occupied && b.key == key {
			return idx
		}
		idx = r.next(idx)
	}
}
