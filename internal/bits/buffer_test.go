package bits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBufferAdd(t *testing.T) {
	b := NewBuffer(4)

	require.NoError(t, b.Add(true))
	require.NoError(t, b.Add(false))
	assert.Equal(t, 2, b.Pointer())
	assert.False(t, b.IsFull())

	require.NoError(t, b.Add(true))
	require.NoError(t, b.Add(true))
	assert.True(t, b.IsFull())

	assert.ErrorIs(t, b.Add(true), ErrBufferFull)
	assert.Equal(t, 4, b.Pointer())
}

func TestBufferInt(t *testing.T) {
	tests := []struct {
		name     string
		bits     []bool
		lo, hi   int
		expected int
	}{
		{
			name:     "single set bit",
			bits:     []bool{false, true, false, false},
			lo:       0,
			hi:       4,
			expected: 0x4,
		},
		{
			name:     "full nibble",
			bits:     []bool{true, true, true, true},
			lo:       0,
			hi:       4,
			expected: 0xF,
		},
		{
			name:     "offset field",
			bits:     []bool{true, false, true, true, false, true},
			lo:       2,
			hi:       6,
			expected: 0xD,
		},
		{
			name:     "empty range",
			bits:     []bool{true, true},
			lo:       1,
			hi:       1,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(len(tt.bits))
			for _, bit := range tt.bits {
				require.NoError(t, b.Add(bit))
			}
			assert.Equal(t, tt.expected, b.Int(tt.lo, tt.hi))
		})
	}
}

func TestBufferIntPanicsOutOfRange(t *testing.T) {
	b := NewBuffer(8)
	assert.Panics(t, func() { b.Int(4, 12) })
	assert.Panics(t, func() { b.Int(-1, 4) })
}

func TestBufferSetSize(t *testing.T) {
	b := NewBuffer(8)
	for i := 0; i < 8; i++ {
		require.NoError(t, b.Add(i%2 == 0))
	}

	// Growing preserves content and pointer.
	b.SetSize(16)
	assert.Equal(t, 16, b.Len())
	assert.Equal(t, 8, b.Pointer())
	assert.True(t, b.Bit(0))
	assert.False(t, b.Bit(1))

	// Shrinking clamps the pointer.
	b.SetSize(4)
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, 4, b.Pointer())
	assert.True(t, b.IsFull())
}

func TestBufferSetPointer(t *testing.T) {
	b := NewBuffer(8)
	for i := 0; i < 8; i++ {
		require.NoError(t, b.Add(true))
	}

	b.SetPointer(4)
	assert.Equal(t, 4, b.Pointer())
	// Bits beyond the pointer keep their values until overwritten.
	assert.True(t, b.Bit(6))

	require.NoError(t, b.Add(false))
	assert.False(t, b.Bit(4))
}

func TestBufferCopyIndependence(t *testing.T) {
	b := NewBuffer(8)
	b.Set(3)
	b.SetPointer(5)

	c := b.Copy()
	require.Equal(t, 5, c.Pointer())
	require.True(t, c.Bit(3))

	b.Set(6)
	b.Clear(3, 4)
	assert.True(t, c.Bit(3))
	assert.False(t, c.Bit(6))
}

func TestBufferGetAndClear(t *testing.T) {
	b := NewBuffer(12)
	b.Set(2)
	b.Set(5)
	b.Set(11)

	snap := b.Get(2, 8)
	assert.Equal(t, 6, snap.Len())
	assert.True(t, snap.Bit(0))
	assert.True(t, snap.Bit(3))
	assert.False(t, snap.Bit(5))

	b.Clear(0, 6)
	assert.False(t, b.Bit(2))
	assert.False(t, b.Bit(5))
	assert.True(t, b.Bit(11))
	// Snapshot is unaffected.
	assert.True(t, snap.Bit(0))
}

func TestBufferString(t *testing.T) {
	b := NewBuffer(12)
	b.Set(0)
	b.Set(1)
	b.Set(2)
	b.Set(3)
	b.Set(4)
	assert.Equal(t, "F80", b.String())
}

func TestBufferIntRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(1, 63).Draw(t, "width")
		value := rapid.Uint64Range(0, uint64(1)<<uint(width)-1).Draw(t, "value")

		b := NewBuffer(width)
		for i := width - 1; i >= 0; i-- {
			if err := b.Add(value>>uint(i)&1 == 1); err != nil {
				t.Fatalf("add failed: %v", err)
			}
		}

		if got := b.Int(0, width); uint64(got) != value {
			t.Fatalf("round trip mismatch: wrote %d, read %d", value, got)
		}
	})
}
