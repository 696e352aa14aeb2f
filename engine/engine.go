// Package engine defines the uniform contract the benchmark driver uses
// to exercise any of the five hash-set engines without knowing which one
// it's holding, plus the telemetry types every call returns.
package engine

// MaxChain bounds the eviction chain a single cuckoo-engine insert is
// allowed to walk before the engine gives up and reports a degraded, but
// still structurally valid, outcome. TriaProb does not use it: its probe
// sequence runs for up to Capacity() steps.
const MaxChain = 128

// Probe is the result of a read-only lookup.
type Probe struct {
	// Contained reports whether the key was found.
	Contained bool
	// Probes counts bucket reads performed. MetaMap accesses don't count.
	Probes int
}

// Update is the result of an insert or remove.
type Update struct {
	// TotalProbes counts bucket reads performed.
	TotalProbes int
	// TotalWrites counts bucket writes performed (the insertion itself
	// plus every displacement it caused).
	TotalWrites int
	// Completed is false when the engine exhausted its eviction budget
	// (cuckoo engines) or its probe sequence (TriaProb) without placing
	// the key, or for TriaProb's remove when the key wasn't found.
	Completed bool
}

// Map is the capability set every engine exposes to the driver.
type Map interface {
	// Len returns the number of distinct live keys.
	Len() int
	// Capacity returns the fixed bucket count this engine was built with.
	Capacity() int
	// LoadFactor is Len()/Capacity().
	LoadFactor() float64

	Probe(key uint64) Probe
	Insert(key uint64) Update
	Remove(key uint64) Update
}
