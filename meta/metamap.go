// Package meta implements the MetaMap sidecar: a dense, fixed-width
// bit-array giving each engine a cheap per-bucket hint (empty/tombstone/
// full, plus a small fingerprint or PSL payload) before it pays for a full
// bucket read.
//
// The backing store is a single flat github.com/bits-and-blooms/bitset,
// indexed as bucket*bits+i — the same layout the prototype this package
// was ported from used for its bitvec::BitVec<u64, Msb0>. Bit 0 of each
// bucket's span is the occupied flag; the remaining bits-1 bits carry the
// payload, written most-significant-bit first.
package meta

import (
	"github.com/bits-and-blooms/bitset"
)

// PSLHintKind discriminates the three possible hint_psl outcomes.
type PSLHintKind uint8

const (
	// PSLHintNone means the bucket is definitely empty.
	PSLHintNone PSLHintKind = iota
	// PSLHintExact carries the bucket's exact stored PSL.
	PSLHintExact
	// PSLHintAtLeast means the stored PSL payload saturated; the real
	// PSL is at least Value. At widths 0 and 1, where no payload is
	// stored, it is returned with Value 1: the bucket must be read.
	PSLHintAtLeast
)

// PSLHint is the result of MetaMap.HintPSL.
type PSLHint struct {
	Kind  PSLHintKind
	Value int
}

// IsNone reports whether the hint proves the bucket empty.
func (h PSLHint) IsNone() bool { return h.Kind == PSLHintNone }

// payloadKind discriminates what SetFull's payload represents.
type payloadKind uint8

const (
	payloadHash payloadKind = iota
	payloadPSL
)

// Payload is the value written into a bucket's span by SetFull; it is
// either a hash fingerprint or a probe-sequence-length hint, depending on
// which engine is writing.
type Payload struct {
	kind payloadKind
	hash uint64
	psl  int
}

// Hash builds a Payload carrying a hash fingerprint.
func Hash(h uint64) Payload { return Payload{kind: payloadHash, hash: h} }

// PSL builds a Payload carrying a probe-sequence-length hint.
func PSL(p int) Payload { return Payload{kind: payloadPSL, psl: p} }

// MetaMap is a fixed-width bit-packed sidecar array over `buckets`
// buckets, each given `bits` bits of metadata.
type MetaMap struct {
	bits    uint
	buckets uint64
	bv      *bitset.BitSet
}

// New constructs a MetaMap for the given bucket count and bit width.
// bits must be one of {0, 1, 2, 4, 8}; any other value is accepted but
// degrades toward the nearest documented behaviour (0 disables hints
// entirely, 1 behaves as a bare occupied bit).
func New(buckets uint64, bits uint) *MetaMap {
	m := &MetaMap{bits: bits, buckets: buckets}
	if bits > 0 {
		m.bv = bitset.New(uint(buckets) * bits)
	}
	return m
}

// Bits returns the configured bit width per bucket.
func (m *MetaMap) Bits() uint { return m.bits }

func (m *MetaMap) span(bucket uint64) (start, end uint) {
	start = uint(bucket) * m.bits
	end = start + m.bits
	return start, end
}

// SetFull marks bucket occupied and stores payload's encoding.
func (m *MetaMap) SetFull(bucket uint64, payload Payload) {
	switch m.bits {
	case 0:
		return
	case 1:
		m.bv.Set(uint(bucket))
		return
	}

	start, end := m.span(bucket)
	w := m.bits - 1
	m.bv.Set(start)

	var value uint64
	switch payload.kind {
	case payloadHash:
		value = payload.hash >> (64 - w)
	case payloadPSL:
		max := uint64(1) << w
		truncated := uint64(payload.psl)
		if truncated > max {
			truncated = max
		}
		value = truncated - 1
	}
	writeBits(m.bv, start+1, end, value)
}

// SetEmpty clears bucket to the all-zero empty encoding.
func (m *MetaMap) SetEmpty(bucket uint64) {
	switch m.bits {
	case 0:
		return
	case 1:
		m.bv.Clear(uint(bucket))
		return
	}
	start, end := m.span(bucket)
	for i := start; i < end; i++ {
		m.bv.Clear(i)
	}
}

// SetTombstone marks bucket as a tombstone: occupied=0, payload=all-ones.
// At bits==1 there is no room to distinguish a tombstone from "full", so
// it collapses to the occupied encoding (matching the engine's fallback
// of reading the bucket itself whenever bits < 2).
func (m *MetaMap) SetTombstone(bucket uint64) {
	switch m.bits {
	case 0:
		return
	case 1:
		m.bv.Set(uint(bucket))
		return
	}
	start, end := m.span(bucket)
	m.bv.Clear(start)
	for i := start + 1; i < end; i++ {
		m.bv.Set(i)
	}
}

// HintEmpty returns true only when the bucket is definitely empty.
func (m *MetaMap) HintEmpty(bucket uint64) bool {
	switch m.bits {
	case 0:
		return false
	case 1:
		return !m.bv.Test(uint(bucket))
	}
	start, end := m.span(bucket)
	for i := start; i < end; i++ {
		if m.bv.Test(i) {
			return false
		}
	}
	return true
}

// HintTombstone returns true only when the bucket is definitely a
// tombstone. Always false when bits < 2 (no room to encode one).
func (m *MetaMap) HintTombstone(bucket uint64) bool {
	if m.bits <= 1 {
		return false
	}
	start, end := m.span(bucket)
	if m.bv.Test(start) {
		return false
	}
	for i := start + 1; i < end; i++ {
		if !m.bv.Test(i) {
			return false
		}
	}
	return true
}

// HintPSL decodes the stored PSL payload, if any.
func (m *MetaMap) HintPSL(bucket uint64) PSLHint {
	switch m.bits {
	case 0:
		return PSLHint{Kind: PSLHintAtLeast, Value: 1}
	case 1:
		if m.bv.Test(uint(bucket)) {
			return PSLHint{Kind: PSLHintAtLeast, Value: 1}
		}
		return PSLHint{Kind: PSLHintNone}
	}

	start, end := m.span(bucket)
	if !m.bv.Test(start) {
		return PSLHint{Kind: PSLHintNone}
	}

	w := m.bits - 1
	value := readBits(m.bv, start+1, end)
	if value == (uint64(1)<<w)-1 {
		return PSLHint{Kind: PSLHintAtLeast, Value: 1 << w}
	}
	return PSLHint{Kind: PSLHintExact, Value: int(value) + 1}
}

// HintNotMatch returns true only when the stored fingerprint is known to
// differ from the top bits of hash.
func (m *MetaMap) HintNotMatch(bucket uint64, hash uint64) bool {
	switch m.bits {
	case 0:
		return false
	case 1:
		return !m.bv.Test(uint(bucket))
	}

	start, end := m.span(bucket)
	if !m.bv.Test(start) {
		return true
	}

	w := m.bits - 1
	stored := readBits(m.bv, start+1, end)
	want := hash >> (64 - w)
	return stored != want
}

// writeBits writes value's low (end-start) bits into [start, end), most
// significant bit first.
func writeBits(bv *bitset.BitSet, start, end uint, value uint64) {
	width := end - start
	for i := uint(0); i < width; i++ {
		bitIndex := start + i
		shift := width - 1 - i
		if (value>>shift)&1 == 1 {
			bv.Set(bitIndex)
		} else {
			bv.Clear(bitIndex)
		}
	}
}

// readBits reads [start, end) back into an integer, most significant bit
// first.
func readBits(bv *bitset.BitSet, start, end uint) uint64 {
	var value uint64
	for i := start; i < end; i++ {
		value <<= 1
		if bv.Test(i) {
			value |= 1
		}
	}
	return value
}
