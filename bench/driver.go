package bench

import (
	"fmt"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/pkg/errors"

	"github.com/rphmeier/hashset-bench/engine"
)

// ErrDegraded is returned when an insert inside a driver operation
// comes back completed=false or exceeds the probe budget the contract
// promises — the engine has entered a degraded state and the benchmark
// run for that configuration is no longer meaningful.
var ErrDegraded = errors.New("bench: engine reported a degraded insert")

// Grow repeatedly inserts fresh keys from keys until load_factor climbs
// by increment (or the engine fills up), recording per-insert probe and
// write telemetry.
func Grow(m engine.Map, keys *KeySet, increment float64) (Record, error) {
	probes := newHistogram()
	writes := newHistogram()

	initial := m.LoadFactor()
	target := initial + increment

	for m.LoadFactor() < target {
		if m.Len() == m.Capacity() {
			break
		}
		u := m.Insert(keys.Push())
		if !u.Completed || u.TotalProbes > engine.MaxChain {
			return Record{}, errors.Wrapf(ErrDegraded,
				"grow at load_factor=%.4f: completed=%v total_probes=%d",
				m.LoadFactor(), u.Completed, u.TotalProbes)
		}
		record(probes, u.TotalProbes)
		record(writes, u.TotalWrites)
	}

	return Record{
		LoadFactor: loadFactorOf(initial),
		Histograms: []*hdrhistogram.Histogram{probes, writes},
	}, nil
}

// Probe measures lookups for count present keys and count absent keys,
// asserting the contract's contained invariant along the way.
func Probe(m engine.Map, keys *KeySet, count int) (Record, error) {
	present := newHistogram()
	absent := newHistogram()

	load := m.LoadFactor()

	for i := 0; i < count; i++ {
		key := keys.Existing()
		p := m.Probe(key)
		if !p.Contained {
			return Record{}, fmt.Errorf("bench: probe of existing key %d returned contained=false", key)
		}
		record(present, p.Probes)
	}
	for i := 0; i < count; i++ {
		key := keys.Nonexisting()
		p := m.Probe(key)
		if p.Contained {
			return Record{}, fmt.Errorf("bench: probe of nonexisting key %d returned contained=true", key)
		}
		record(absent, p.Probes)
	}

	return Record{
		LoadFactor: loadFactorOf(load),
		Histograms: []*hdrhistogram.Histogram{present, absent},
	}, nil
}

// Churn alternates removing the oldest live key and inserting a fresh
// one, count times, recording telemetry from both halves of each step
// into shared histograms.
func Churn(m engine.Map, keys *KeySet, count int) (Record, error) {
	probes := newHistogram()
	writes := newHistogram()

	load := m.LoadFactor()

	for i := 0; i < count; i++ {
		ur := m.Remove(keys.Pop())
		record(probes, ur.TotalProbes)
		record(writes, ur.TotalWrites)

		ui := m.Insert(keys.Push())
		if !ui.Completed {
			return Record{}, errors.Wrap(ErrDegraded, "churn: insert did not complete")
		}
		record(probes, ui.TotalProbes)
		record(writes, ui.TotalWrites)
	}

	return Record{
		LoadFactor: loadFactorOf(load),
		Histograms: []*hdrhistogram.Histogram{probes, writes},
	}, nil
}

// OverwriteExisting repeatedly re-inserts already-present keys, count
// times, and records only the probe telemetry: this exercises the
// idempotent-insert path (the "re-inserting a present key is a no-op"
// contract) under load, rather than growing the set further.
func OverwriteExisting(m engine.Map, keys *KeySet, count int) (Record, error) {
	probes := newHistogram()
	load := m.LoadFactor()
	lenBefore := m.Len()

	for i := 0; i < count; i++ {
		key := keys.Existing()
		u := m.Insert(key)
		if !u.Completed {
			return Record{}, errors.Wrap(ErrDegraded, "overwrite_existing: insert did not complete")
		}
		record(probes, u.TotalProbes)
	}

	if m.Len() != lenBefore {
		return Record{}, fmt.Errorf("bench: overwrite_existing changed len from %d to %d", lenBefore, m.Len())
	}

	return Record{
		LoadFactor: loadFactorOf(load),
		Histograms: []*hdrhistogram.Histogram{probes},
	}, nil
}
