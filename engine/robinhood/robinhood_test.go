package robinhood_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rphmeier/hashset-bench/engine/robinhood"
)

func TestScenarioFillAndRemove(t *testing.T) {
	rh, err := robinhood.New(16, 1)
	require.NoError(t, err)

	for k := uint64(1); k <= 12; k++ {
		u := rh.Insert(k)
		assert.True(t, u.Completed)
	}
	assert.Equal(t, 12, rh.Len())

	for k := uint64(1); k <= 12; k++ {
		assert.True(t, rh.Probe(k).Contained, "key %d should be present", k)
	}
	for k := uint64(13); k <= 20; k++ {
		assert.False(t, rh.Probe(k).Contained, "key %d should be absent", k)
	}

	u := rh.Remove(5)
	assert.True(t, u.Completed)
	assert.False(t, rh.Probe(5).Contained)
	assert.True(t, rh.Probe(6).Contained)
	assert.Equal(t, 11, rh.Len())
}

func TestInsertIdempotent(t *testing.T) {
	rh, err := robinhood.New(8, 4)
	require.NoError(t, err)

	rh.Insert(42)
	require.Equal(t, 1, rh.Len())

	u := rh.Insert(42)
	assert.True(t, u.Completed)
	assert.Equal(t, 1, rh.Len())
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	rh, err := robinhood.New(8, 2)
	require.NoError(t, err)

	u := rh.Remove(999)
	assert.True(t, u.Completed)
	assert.Equal(t, 0, u.TotalWrites)
	assert.Equal(t, 0, rh.Len())
}

func TestRoundTrip(t *testing.T) {
	rh, err := robinhood.New(32, 8)
	require.NoError(t, err)

	for k := uint64(0); k < 20; k++ {
		rh.Insert(k)
	}
	require.Equal(t, 20, rh.Len())

	rh.Remove(7)
	assert.False(t, rh.Probe(7).Contained)
	assert.Equal(t, 19, rh.Len())

	for k := uint64(0); k < 20; k++ {
		if k == 7 {
			continue
		}
		assert.True(t, rh.Probe(k).Contained, "key %d should survive removal of 7", k)
	}
}

func TestZeroMetaBitsStillCorrect(t *testing.T) {
	rh, err := robinhood.New(16, 0)
	require.NoError(t, err)

	for k := uint64(1); k <= 10; k++ {
		rh.Insert(k)
	}
	for k := uint64(1); k <= 10; k++ {
		assert.True(t, rh.Probe(k).Contained)
	}
	assert.False(t, rh.Probe(11).Contained)
}

func TestInvalidCapacity(t *testing.T) {
	_, err := robinhood.New(0, 4)
	assert.ErrorIs(t, err, robinhood.ErrInvalidCapacity)
}

func TestDeterministicAcrossTwoInstances(t *testing.T) {
	ops := []uint64{5, 12, 3, 19, 8, 1}

	a, err := robinhood.New(16, 4)
	require.NoError(t, err)
	b, err := robinhood.New(16, 4)
	require.NoError(t, err)

	for _, k := range ops {
		a.Insert(k)
		b.Insert(k)
	}
	assert.Equal(t, a.Len(), b.Len())
	for k := uint64(0); k < 30; k++ {
		assert.Equal(t, a.Probe(k).Contained, b.Probe(k).Contained)
	}
}
