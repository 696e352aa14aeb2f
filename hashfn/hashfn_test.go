package hashfn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rphmeier/hashset-bench/hashfn"
)

func TestFamilyDeterministic(t *testing.T) {
	a := hashfn.NewFamily(5, 42)
	b := hashfn.NewFamily(5, 42)

	for i := 0; i < 5; i++ {
		for key := uint64(0); key < 100; key++ {
			assert.Equal(t, a.Hash(i, key), b.Hash(i, key))
		}
	}
}

func TestFamilyMembersDiffer(t *testing.T) {
	f := hashfn.NewFamily(6, 7)
	require.Equal(t, 6, f.Len())

	seen := make(map[uint64]bool)
	for i := 0; i < f.Len(); i++ {
		h := f.Hash(i, 123456789)
		assert.False(t, seen[h], "two hashers collided on salt derivation")
		seen[h] = true
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := hashfn.NewFamily(3, 1)
	b := hashfn.NewFamily(3, 2)
	assert.NotEqual(t, a.Hash(0, 99), b.Hash(0, 99))
}
