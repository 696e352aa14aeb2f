package blockedcuckoo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rphmeier/hashset-bench/engine/blockedcuckoo"
)

func TestInsertProbeTwoBlocks(t *testing.T) {
	b, err := blockedcuckoo.New(214)
	require.NoError(t, err)

	keys := make([]uint64, 200)
	for i := range keys {
		keys[i] = uint64(i*13 + 3)
		u := b.Insert(keys[i])
		require.True(t, u.Completed, "insert %d should complete", keys[i])
	}

	for _, k := range keys {
		p := b.Probe(k)
		require.True(t, p.Contained, "key %d should be present", k)
		assert.Contains(t, []int{1, 2}, p.Probes)
	}
}

func TestInsertIdempotent(t *testing.T) {
	b, err := blockedcuckoo.New(214)
	require.NoError(t, err)

	b.Insert(42)
	require.Equal(t, 1, b.Len())
	b.Insert(42)
	assert.Equal(t, 1, b.Len())
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	b, err := blockedcuckoo.New(214)
	require.NoError(t, err)
	u := b.Remove(99999)
	assert.True(t, u.Completed)
	assert.Equal(t, 0, u.TotalWrites)
}

func TestRoundTrip(t *testing.T) {
	b, err := blockedcuckoo.New(214)
	require.NoError(t, err)

	for i := uint64(0); i < 100; i++ {
		b.Insert(i)
	}
	b.Remove(50)
	assert.False(t, b.Probe(50).Contained)
	assert.Equal(t, 99, b.Len())
}

func TestInvalidCapacity(t *testing.T) {
	_, err := blockedcuckoo.New(100)
	assert.ErrorIs(t, err, blockedcuckoo.ErrInvalidCapacity)

	_, err = blockedcuckoo.New(107)
	assert.ErrorIs(t, err, blockedcuckoo.ErrInvalidCapacity)
}
