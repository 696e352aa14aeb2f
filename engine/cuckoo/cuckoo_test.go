package cuckoo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rphmeier/hashset-bench/engine/cuckoo"
)

func TestFillProbeRemove(t *testing.T) {
	c, err := cuckoo.New(64, 4)
	require.NoError(t, err)

	keys := make([]uint64, 50)
	for i := range keys {
		keys[i] = uint64(i*7 + 1)
		u := c.Insert(keys[i])
		require.True(t, u.Completed, "insert %d should complete", keys[i])
	}

	for _, k := range keys {
		assert.True(t, c.Probe(k).Contained, "key %d should be present", k)
	}

	for _, k := range keys {
		u := c.Remove(k)
		assert.True(t, u.Completed)
	}
	assert.Equal(t, 0, c.Len())
}

func TestInsertIdempotent(t *testing.T) {
	c, err := cuckoo.New(32, 4)
	require.NoError(t, err)

	c.Insert(9)
	require.Equal(t, 1, c.Len())
	c.Insert(9)
	assert.Equal(t, 1, c.Len())
}

func TestAbsentKeysNotFound(t *testing.T) {
	c, err := cuckoo.New(64, 8)
	require.NoError(t, err)
	for i := uint64(0); i < 20; i++ {
		c.Insert(i)
	}
	for i := uint64(1000); i < 1010; i++ {
		assert.False(t, c.Probe(i).Contained)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	c, err := cuckoo.New(16, 2)
	require.NoError(t, err)
	u := c.Remove(555)
	assert.True(t, u.Completed)
	assert.Equal(t, 0, u.TotalWrites)
}

func TestZeroMetaBitsStillCorrect(t *testing.T) {
	c, err := cuckoo.New(64, 0)
	require.NoError(t, err)
	for i := uint64(0); i < 30; i++ {
		c.Insert(i)
	}
	for i := uint64(0); i < 30; i++ {
		assert.True(t, c.Probe(i).Contained)
	}
}

func TestInvalidCapacity(t *testing.T) {
	_, err := cuckoo.New(0, 2)
	assert.ErrorIs(t, err, cuckoo.ErrInvalidCapacity)
}
