package cuckoo3_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rphmeier/hashset-bench/engine/cuckoo3"
)

func TestFillToHighLoadFactor(t *testing.T) {
	c, err := cuckoo3.New(99, 2)
	require.NoError(t, err)

	target := int(0.9 * 99)
	inserted := make([]uint64, 0, target)
	var k uint64
	for len(inserted) < target {
		u := c.Insert(k)
		if u.Completed {
			inserted = append(inserted, k)
		}
		k++
	}

	for _, key := range inserted {
		assert.True(t, c.Probe(key).Contained, "key %d should be present", key)
	}
	for absent := k; absent < k+20; absent++ {
		assert.False(t, c.Probe(absent).Contained)
	}
}

func TestInsertIdempotent(t *testing.T) {
	c, err := cuckoo3.New(64, 4)
	require.NoError(t, err)

	c.Insert(123)
	require.Equal(t, 1, c.Len())
	c.Insert(123)
	assert.Equal(t, 1, c.Len())
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	c, err := cuckoo3.New(32, 2)
	require.NoError(t, err)
	u := c.Remove(77)
	assert.True(t, u.Completed)
	assert.Equal(t, 0, u.TotalWrites)
}

func TestRoundTrip(t *testing.T) {
	c, err := cuckoo3.New(64, 8)
	require.NoError(t, err)

	for i := uint64(0); i < 30; i++ {
		c.Insert(i)
	}
	c.Remove(15)
	assert.False(t, c.Probe(15).Contained)
	for i := uint64(0); i < 30; i++ {
		if i == 15 {
			continue
		}
		assert.True(t, c.Probe(i).Contained)
	}
}

func TestInvalidCapacity(t *testing.T) {
	_, err := cuckoo3.New(0, 2)
	assert.ErrorIs(t, err, cuckoo3.ErrInvalidCapacity)
}
