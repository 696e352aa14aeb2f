// Package config loads the TOML description of a benchmark suite: which
// engines to run, at what capacity, against which MetaMap bit widths,
// and where to write output.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/rphmeier/hashset-bench/bench"
)

// Engine names a single engine entry in a suite file. Accepted values
// are "robinhood", "cuckoo", "cuckoo3", "blockedcuckoo", "triaprob".
type Engine struct {
	Name     string `toml:"name"`
	Capacity uint64 `toml:"capacity,omitempty"`
	MetaBits []uint `toml:"meta_bits,omitempty"`
}

// Suite is the top-level shape of a suite TOML file.
type Suite struct {
	OutDir          string   `toml:"out_dir"`
	DefaultCapacity uint64   `toml:"default_capacity"`
	Engines         []Engine `toml:"engines"`
}

// Default returns the suite matching the sweep main.rs ran: all five
// engines at the default capacity.
func Default() Suite {
	return Suite{
		OutDir:          "out",
		DefaultCapacity: bench.DefaultCapacity,
		Engines: []Engine{
			{Name: "robinhood"},
			{Name: "cuckoo"},
			{Name: "cuckoo3"},
			// blockedcuckoo's capacity must be a multiple of its 107-slot
			// block size; the largest such multiple not above DefaultCapacity.
			{Name: "blockedcuckoo", Capacity: 107 * (bench.DefaultCapacity / 107)},
			{Name: "triaprob"},
		},
	}
}

// Load reads and parses a suite file from path.
func Load(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, errors.Wrapf(err, "reading suite config %q", path)
	}

	var s Suite
	if err := toml.Unmarshal(data, &s); err != nil {
		return Suite{}, errors.Wrapf(err, "parsing suite config %q", path)
	}
	if s.OutDir == "" {
		s.OutDir = "out"
	}
	if s.DefaultCapacity == 0 {
		s.DefaultCapacity = bench.DefaultCapacity
	}
	return s, nil
}

// EngineKind resolves e's name to a bench.EngineKind.
func (e Engine) EngineKind() (bench.EngineKind, error) {
	switch e.Name {
	case "robinhood":
		return bench.RobinHood, nil
	case "cuckoo":
		return bench.Cuckoo, nil
	case "cuckoo3":
		return bench.Cuckoo3, nil
	case "blockedcuckoo":
		return bench.BlockedCuckoo, nil
	case "triaprob":
		return bench.TriaProb, nil
	default:
		return 0, errors.Errorf("config: unknown engine name %q", e.Name)
	}
}

// CapacityOr returns e's own capacity override, or fallback if unset.
func (e Engine) CapacityOr(fallback uint64) uint64 {
	if e.Capacity != 0 {
		return e.Capacity
	}
	return fallback
}
