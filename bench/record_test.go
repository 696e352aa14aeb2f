package bench_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rphmeier/hashset-bench/bench"
)

func TestWritersProducesFourFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := bench.NewWriters(dir, "robinhood")
	require.NoError(t, err)

	spec := bench.Spec{Engine: bench.RobinHood, Capacity: 1024, MetaBits: 4}
	m, err := spec.Build()
	require.NoError(t, err)
	keys := &bench.KeySet{}

	rec, err := bench.Grow(m, keys, 0.1)
	require.NoError(t, err)
	require.NoError(t, rec.Write(w.Grow, spec))
	require.NoError(t, w.Close())

	for _, kind := range []string{"grow", "probe", "churn", "overwrite"} {
		path := filepath.Join(dir, kind+"_robinhood.csv")
		_, err := os.Stat(path)
		assert.NoError(t, err, "expected %s to exist", path)
	}

	f, err := os.Open(filepath.Join(dir, "grow_robinhood.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 3+2*4) // load_factor, capacity, meta_bits, then 2 histograms x 4 fields
}
