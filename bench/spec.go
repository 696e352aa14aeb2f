package bench

import (
	"fmt"

	"github.com/rphmeier/hashset-bench/engine"
	"github.com/rphmeier/hashset-bench/engine/blockedcuckoo"
	"github.com/rphmeier/hashset-bench/engine/cuckoo"
	"github.com/rphmeier/hashset-bench/engine/cuckoo3"
	"github.com/rphmeier/hashset-bench/engine/robinhood"
	"github.com/rphmeier/hashset-bench/engine/triaprob"
)

// EngineKind names one of the five engines under test.
type EngineKind uint8

const (
	RobinHood EngineKind = iota
	Cuckoo
	Cuckoo3
	BlockedCuckoo
	TriaProb
)

// String returns the lowercase name used in CSV file names.
func (k EngineKind) String() string {
	switch k {
	case RobinHood:
		return "robinhood"
	case Cuckoo:
		return "cuckoo"
	case Cuckoo3:
		return "cuckoo3"
	case BlockedCuckoo:
		return "blockedcuckoo"
	case TriaProb:
		return "triaprob"
	default:
		return "unknown"
	}
}

// Spec describes a single engine configuration: which algorithm, how
// big, and how many MetaMap bits. It knows how to build a fresh
// engine.Map matching its own description, the same role main.rs's
// MapSpec enum played for the single-engine Rust prototype.
type Spec struct {
	Engine   EngineKind
	Capacity uint64
	MetaBits uint
}

// Build constructs a fresh engine.Map matching s's description.
// BlockedCuckoo ignores MetaBits (it carries no MetaMap).
func (s Spec) Build() (engine.Map, error) {
	switch s.Engine {
	case RobinHood:
		return robinhood.New(s.Capacity, s.MetaBits)
	case Cuckoo:
		return cuckoo.New(s.Capacity, s.MetaBits)
	case Cuckoo3:
		return cuckoo3.New(s.Capacity, s.MetaBits)
	case BlockedCuckoo:
		return blockedcuckoo.New(s.Capacity)
	case TriaProb:
		return triaprob.New(s.Capacity, s.MetaBits)
	default:
		return nil, fmt.Errorf("bench: unknown engine kind %d", s.Engine)
	}
}
