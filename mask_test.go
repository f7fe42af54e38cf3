package strata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// === BitArray Tests ===

func TestBitArray_AddRemoveGet(t *testing.T) {
	var b BitArray

	require.True(t, b.IsEmpty())
	require.Equal(t, 0, b.Count())
	require.False(t, b.Get(0))

	require.True(t, b.Add(0))
	require.False(t, b.Add(0), "adding a set bit reports no change")
	require.True(t, b.Get(0))
	require.False(t, b.IsEmpty())

	// Bits around word boundaries.
	for _, i := range []int{1, 63, 64, 65, 127, 128, PageSize - 1} {
		require.True(t, b.Add(i), "bit %d", i)
		require.True(t, b.Get(i), "bit %d", i)
	}
	require.Equal(t, 8, b.Count())

	require.True(t, b.Remove(64))
	require.False(t, b.Remove(64), "removing a clear bit reports no change")
	require.False(t, b.Get(64))
	require.Equal(t, 7, b.Count())

	b.Clear()
	require.True(t, b.IsEmpty())
	require.Equal(t, 0, b.Count())
}

func TestBitArray_Words(t *testing.T) {
	var b BitArray

	b.Add(3)
	b.Add(64)
	require.Equal(t, uint64(1)<<3, b.Word(0))
	require.Equal(t, uint64(1), b.Word(1))

	b.OrWord(1, 0b110)
	require.Equal(t, uint64(0b111), b.Word(1))

	removed := b.ClearWord(1, 0b011)
	require.Equal(t, uint64(0b011), removed, "only bits actually cleared are reported")
	require.Equal(t, uint64(0b100), b.Word(1))

	removed = b.ClearWord(1, 0b011)
	require.Equal(t, uint64(0), removed)
}

// === BitStream Tests ===

func TestBitStream_Push(t *testing.T) {
	var s BitStream

	require.Equal(t, 0, s.Len())
	require.Equal(t, 0, s.CountOnes())
	require.Empty(t, s.Words())

	pattern := make([]bool, 0, 200)
	for i := 0; i < 200; i++ {
		v := i%3 == 0
		pattern = append(pattern, v)
		s.Push(v)
	}

	require.Equal(t, 200, s.Len())
	require.Len(t, s.Words(), 4, "a new word is allocated every 64 pushes")
	ones := 0
	for i, v := range pattern {
		require.Equal(t, v, s.Get(i), "bit %d", i)
		if v {
			ones++
		}
	}
	require.Equal(t, ones, s.CountOnes())
}

func TestBitStream_Clear(t *testing.T) {
	var s BitStream

	s.PushTrue()
	s.PushFalse()
	s.PushTrue()
	require.Equal(t, 3, s.Len())
	require.Equal(t, 2, s.CountOnes())

	s.Clear()
	require.Equal(t, 0, s.Len())
	require.Equal(t, 0, s.CountOnes())

	// Reused storage starts clean.
	s.PushFalse()
	s.PushTrue()
	require.False(t, s.Get(0))
	require.True(t, s.Get(1))
}
