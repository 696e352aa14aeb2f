package bitutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rphmeier/hashset-bench/bitutil"
)

func TestNextPowerOfTwo(t *testing.T) {
	assert.Equal(t, uint64(1), bitutil.NextPowerOf2(0))
	assert.Equal(t, uint64(1), bitutil.NextPowerOf2(1))
	assert.Equal(t, uint64(2), bitutil.NextPowerOf2(2))
	assert.Equal(t, uint64(4), bitutil.NextPowerOf2(3))
	assert.Equal(t, uint64(4), bitutil.NextPowerOf2(4))
	assert.Equal(t, uint64(8), bitutil.NextPowerOf2(5))
	assert.Equal(t, uint64(8), bitutil.NextPowerOf2(7))
	assert.Equal(t, uint64(8), bitutil.NextPowerOf2(8))
	assert.Equal(t, uint64(1048576), bitutil.NextPowerOf2(1000000))
}

func TestIsPowerOf2(t *testing.T) {
	assert.True(t, bitutil.IsPowerOf2(1))
	assert.True(t, bitutil.IsPowerOf2(2))
	assert.True(t, bitutil.IsPowerOf2(1024))
	assert.False(t, bitutil.IsPowerOf2(0))
	assert.False(t, bitutil.IsPowerOf2(3))
	assert.False(t, bitutil.IsPowerOf2(1000))
}

func TestRoundUpToMultiple(t *testing.T) {
	assert.Equal(t, uint64(107), bitutil.RoundUpToMultiple(1, 107))
	assert.Equal(t, uint64(107), bitutil.RoundUpToMultiple(107, 107))
	assert.Equal(t, uint64(214), bitutil.RoundUpToMultiple(108, 107))
	assert.Equal(t, uint64(0), bitutil.RoundUpToMultiple(0, 107))
}
