package bench

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Default sweep parameters, mirroring main.rs's constants.
const (
	DefaultCapacity = 1 << 20
	GrowIncrement   = 0.01
	GrowMaxLoad     = 0.95
	SampleIncrement = 0.1
	SampleMaxLoad   = 0.9
	SampleCount     = 10_000
)

// MetaBitWidths are the MetaMap widths every engine is swept across.
var MetaBitWidths = []uint{0, 1, 2, 4, 8}

// RunGrowSweep repeatedly calls Grow against a freshly-built spec.Map
// until load factor approaches GrowMaxLoad, writing one row per call to
// w.Grow.
func RunGrowSweep(log *zap.SugaredLogger, w *Writers, spec Spec) error {
	m, err := spec.Build()
	if err != nil {
		return errors.Wrap(err, "building engine for grow sweep")
	}
	keys := &KeySet{}

	for m.LoadFactor()+GrowIncrement < GrowMaxLoad {
		rec, err := Grow(m, keys, GrowIncrement)
		if err != nil {
			log.Warnw("grow sweep aborted", "engine", spec.Engine, "meta_bits", spec.MetaBits, "error", err)
			return err
		}
		if err := rec.Write(w.Grow, spec); err != nil {
			return errors.Wrap(err, "writing grow record")
		}
	}
	log.Infow("grow sweep complete", "engine", spec.Engine, "meta_bits", spec.MetaBits, "final_load_factor", m.LoadFactor())
	return nil
}

// RunProbeSweep builds a fresh engine at each of several load factors
// and measures probe telemetry there, writing one row per load factor.
func RunProbeSweep(log *zap.SugaredLogger, w *Writers, spec Spec) error {
	for load := SampleIncrement; load <= SampleMaxLoad; load += SampleIncrement {
		m, err := spec.Build()
		if err != nil {
			return errors.Wrap(err, "building engine for probe sweep")
		}
		keys := &KeySet{}
		if _, err := Grow(m, keys, load); err != nil {
			return errors.Wrapf(err, "priming load_factor=%.2f before probe", load)
		}

		rec, err := Probe(m, keys, SampleCount)
		if err != nil {
			log.Warnw("probe sweep aborted", "engine", spec.Engine, "load_factor", load, "error", err)
			return err
		}
		if err := rec.Write(w.Probe, spec); err != nil {
			return errors.Wrap(err, "writing probe record")
		}
	}
	return nil
}

// RunChurnSweep mirrors RunProbeSweep but measures remove+insert churn
// telemetry instead of lookups.
func RunChurnSweep(log *zap.SugaredLogger, w *Writers, spec Spec) error {
	for load := SampleIncrement; load <= SampleMaxLoad; load += SampleIncrement {
		m, err := spec.Build()
		if err != nil {
			return errors.Wrap(err, "building engine for churn sweep")
		}
		keys := &KeySet{}
		if _, err := Grow(m, keys, load); err != nil {
			return errors.Wrapf(err, "priming load_factor=%.2f before churn", load)
		}

		rec, err := Churn(m, keys, SampleCount)
		if err != nil {
			log.Warnw("churn sweep aborted", "engine", spec.Engine, "load_factor", load, "error", err)
			return err
		}
		if err := rec.Write(w.Churn, spec); err != nil {
			return errors.Wrap(err, "writing churn record")
		}
	}
	return nil
}

// RunOverwriteSweep mirrors RunProbeSweep but measures repeated inserts
// of already-present keys.
func RunOverwriteSweep(log *zap.SugaredLogger, w *Writers, spec Spec) error {
	for load := SampleIncrement; load <= SampleMaxLoad; load += SampleIncrement {
		m, err := spec.Build()
		if err != nil {
			return errors.Wrap(err, "building engine for overwrite sweep")
		}
		keys := &KeySet{}
		if _, err := Grow(m, keys, load); err != nil {
			return errors.Wrapf(err, "priming load_factor=%.2f before overwrite", load)
		}

		rec, err := OverwriteExisting(m, keys, SampleCount)
		if err != nil {
			log.Warnw("overwrite sweep aborted", "engine", spec.Engine, "load_factor", load, "error", err)
			return err
		}
		if err := rec.Write(w.Overwrite, spec); err != nil {
			return errors.Wrap(err, "writing overwrite record")
		}
	}
	return nil
}

// RunAll drives the full sweep for one engine kind across every MetaMap
// bit width in widths (MetaBitWidths if nil): grow, probe, churn, and
// overwrite, one set of CSV rows per width. This is the Go equivalent
// of main.rs's main(), generalized from a single hardcoded engine to
// any of the five.
func RunAll(log *zap.SugaredLogger, outDir string, kind EngineKind, capacity uint64, widths []uint) error {
	if widths == nil {
		widths = MetaBitWidths
	}

	w, err := NewWriters(outDir, kind.String())
	if err != nil {
		return errors.Wrap(err, "opening output writers")
	}
	defer w.Close()

	for _, bits := range widths {
		spec := Spec{Engine: kind, Capacity: capacity, MetaBits: bits}
		log.Infow("starting sweep", "engine", kind, "meta_bits", bits, "capacity", capacity)

		if err := RunGrowSweep(log, w, spec); err != nil {
			return err
		}
		if err := RunProbeSweep(log, w, spec); err != nil {
			return err
		}
		if err := RunChurnSweep(log, w, spec); err != nil {
			return err
		}
		if err := RunOverwriteSweep(log, w, spec); err != nil {
			return err
		}
	}
	return nil
}
