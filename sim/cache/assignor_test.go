package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanced_Assign(t *testing.T) {
	a := NewBalanced(2)
	for disk, want := range map[int]int{0: 0, 1: 1, 2: 0, 3: 1, 4: 0, -1: 1} {
		assert.Equal(t, want, a.Assign(disk), "disk %d", disk)
	}
}

func TestBalanced_SpreadsEvenly(t *testing.T) {
	a := NewBalanced(4)
	load := make(map[int]int)
	for disk := 0; disk < 100; disk++ {
		load[a.Assign(disk)]++
	}
	assert.Equal(t, map[int]int{0: 25, 1: 25, 2: 25, 3: 25}, load)
}

func TestNewBalanced_ZeroNodes_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "assignor: nodes must be > 0, got 0", func() { NewBalanced(0) })
}

func TestHashed_DeterministicAndInRange(t *testing.T) {
	a, err := NewAssignor(AssignorHashed, 3, 10)
	require.NoError(t, err)
	for disk := 0; disk < 50; disk++ {
		got := a.Assign(disk)
		assert.GreaterOrEqual(t, got, 0)
		assert.Less(t, got, 3)
		assert.Equal(t, got, a.Assign(disk))
	}
}

func TestRanged_ContiguousRuns(t *testing.T) {
	a, err := NewAssignor(AssignorRanged, 2, 8)
	require.NoError(t, err)
	for disk := 0; disk < 8; disk++ {
		want := 0
		if disk >= 4 {
			want = 1
		}
		assert.Equal(t, want, a.Assign(disk), "disk %d", disk)
	}
	assert.Equal(t, a.Assign(1), a.Assign(9))
}

func TestNewAssignor_Errors(t *testing.T) {
	_, err := NewAssignor("sticky", 2, 4)
	assert.EqualError(t, err, `unknown assignor "sticky"; valid: [balanced hash range]`)

	_, err = NewAssignor(AssignorBalanced, 0, 4)
	assert.EqualError(t, err, "assignor: nodes must be > 0, got 0")

	_, err = NewAssignor(AssignorRanged, 4, 2)
	assert.Error(t, err)

	a, err := NewAssignor("", 2, 0)
	require.NoError(t, err)
	assert.IsType(t, &Balanced{}, a)
}

func TestIsValidAssignor(t *testing.T) {
	assert.True(t, IsValidAssignor(AssignorBalanced))
	assert.True(t, IsValidAssignor(""))
	assert.False(t, IsValidAssignor("sticky"))
}
