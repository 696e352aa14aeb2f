package triaprob_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rphmeier/hashset-bench/engine/triaprob"
)

func TestInsertRemoveReinsert(t *testing.T) {
	tp, err := triaprob.New(256, 8)
	require.NoError(t, err)

	for k := uint64(1); k <= 200; k++ {
		u := tp.Insert(k)
		require.True(t, u.Completed, "insert %d should complete", k)
	}
	require.Equal(t, 200, tp.Len())

	for k := uint64(2); k <= 200; k += 2 {
		u := tp.Remove(k)
		require.True(t, u.Completed)
	}

	for k := uint64(2); k <= 200; k += 2 {
		u := tp.Insert(k)
		require.True(t, u.Completed, "reinsert %d should complete", k)
	}

	assert.Equal(t, 200, tp.Len())
	for k := uint64(1); k <= 200; k++ {
		assert.True(t, tp.Probe(k).Contained, "key %d should be present", k)
	}
}

func TestInsertIdempotent(t *testing.T) {
	tp, err := triaprob.New(64, 4)
	require.NoError(t, err)

	tp.Insert(10)
	require.Equal(t, 1, tp.Len())
	u := tp.Insert(10)
	assert.True(t, u.Completed)
	assert.Equal(t, 1, tp.Len())
}

func TestRemoveAbsentReportsIncomplete(t *testing.T) {
	tp, err := triaprob.New(64, 4)
	require.NoError(t, err)
	u := tp.Remove(123)
	assert.False(t, u.Completed)
	assert.Equal(t, 0, u.TotalWrites)
}

func TestDuplicateNotShadowedByTombstone(t *testing.T) {
	tp, err := triaprob.New(32, 2)
	require.NoError(t, err)

	var a uint64
	for a = 0; ; a++ {
		tp.Insert(a)
		if tp.Len() >= 2 {
			break
		}
	}

	tp.Remove(0)
	before := tp.Len()
	u := tp.Insert(a)
	assert.True(t, u.Completed)
	assert.Equal(t, before, tp.Len())
	assert.True(t, tp.Probe(a).Contained)
}

func TestCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	tp, err := triaprob.New(100, 4)
	require.NoError(t, err)
	assert.Equal(t, 128, tp.Capacity())
}

func TestInvalidCapacity(t *testing.T) {
	_, err := triaprob.New(0, 4)
	assert.ErrorIs(t, err, triaprob.ErrInvalidCapacity)
}
