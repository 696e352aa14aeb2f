package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/pkg/errors"
)

// Record is one row of benchmark output: the load factor the
// measurement was taken at, plus one or more HDR histograms summarizing
// whatever telemetry the driver operation collected.
type Record struct {
	LoadFactor uint64 // load factor * 10000, to avoid float round-trip noise
	Histograms []*hdrhistogram.Histogram
}

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(1, 1<<20, 3)
}

// record saves a probe/write count into h. HdrHistogram can't represent
// zero directly (its lowest discernible value is 1), so a genuine zero
// count - "no bucket was written at all" - is folded into the same
// bucket as one; this only blurs the very bottom of the distribution,
// which benchmarking reports round to whole probes/writes anyway.
func record(h *hdrhistogram.Histogram, value int) {
	if value < 1 {
		value = 1
	}
	_ = h.RecordValue(int64(value))
}

// loadFactorOf packs a float64 load factor into the fixed-point form
// Record stores: lf*10000 rounded, i.e. four decimal places. Write prints
// it with two decimals.
func loadFactorOf(lf float64) uint64 {
	return uint64(lf*10000 + 0.5)
}

// Write appends the record as a CSV row: load_factor, capacity,
// meta_bits, then mean/p50/p95/p99 for each histogram in order.
func (r Record) Write(w *csv.Writer, spec Spec) error {
	row := []string{
		fmt.Sprintf("%.2f", float64(r.LoadFactor)/10000),
		fmt.Sprintf("%d", spec.Capacity),
		fmt.Sprintf("%d", spec.MetaBits),
	}

	for _, h := range r.Histograms {
		row = append(row,
			fmt.Sprintf("%.2f", h.Mean()),
			fmt.Sprintf("%.2f", float64(h.ValueAtQuantile(50))),
			fmt.Sprintf("%.2f", float64(h.ValueAtQuantile(95))),
			fmt.Sprintf("%.2f", float64(h.ValueAtQuantile(99))),
		)
	}

	if err := w.Write(row); err != nil {
		return errors.Wrap(err, "writing benchmark record")
	}
	w.Flush()
	return w.Error()
}

// Writers bundles the four per-engine CSV outputs the sweep produces:
// grow, probe, churn, and overwrite telemetry each get their own file.
type Writers struct {
	Grow      *csv.Writer
	Probe     *csv.Writer
	Churn     *csv.Writer
	Overwrite *csv.Writer

	files []*os.File
}

// NewWriters opens (creating as needed) the four CSV files for the
// given engine name under dir, e.g. dir/grow_robinhood.csv.
func NewWriters(dir string, name string) (*Writers, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating output directory %q", dir)
	}

	w := &Writers{}
	open := func(kind string) (*csv.Writer, error) {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", kind, name))
		f, err := os.Create(path)
		if err != nil {
			return nil, errors.Wrapf(err, "creating %q", path)
		}
		w.files = append(w.files, f)
		return csv.NewWriter(f), nil
	}

	var err error
	if w.Grow, err = open("grow"); err != nil {
		return nil, err
	}
	if w.Probe, err = open("probe"); err != nil {
		return nil, err
	}
	if w.Churn, err = open("churn"); err != nil {
		return nil, err
	}
	if w.Overwrite, err = open("overwrite"); err != nil {
		return nil, err
	}
	return w, nil
}

// Close flushes and closes all four underlying files.
func (w *Writers) Close() error {
	w.Grow.Flush()
	w.Probe.Flush()
	w.Churn.Flush()
	w.Overwrite.Flush()

	var firstErr error
	for _, f := range w.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
