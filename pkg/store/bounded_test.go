package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_AppendBelowCapacity(t *testing.T) {
	c := NewCollection[int](5)
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Append(i, nil))
	}
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []int{0, 1, 2}, c.Snapshot())
}

func TestCollection_EvictsOldestFirst(t *testing.T) {
	c := NewCollection[int](250)
	for i := 1; i <= 260; i++ {
		require.NoError(t, c.Append(i, nil))
	}

	snapshot := c.Snapshot()
	require.Len(t, snapshot, 250)
	assert.Equal(t, 11, snapshot[0])
	assert.Equal(t, 260, snapshot[249])
}

func TestCollection_CommitSeesTrimmedSnapshot(t *testing.T) {
	c := NewCollection[string](2)
	var committed []string
	commit := func(snapshot []string) error {
		committed = snapshot
		return nil
	}

	require.NoError(t, c.Append("a", commit))
	require.NoError(t, c.Append("b", commit))
	require.NoError(t, c.Append("c", commit))

	assert.Equal(t, []string{"b", "c"}, committed)
}

func TestCollection_CommitErrorPropagates(t *testing.T) {
	c := NewCollection[int](2)
	wantErr := errors.New("disk full")
	err := c.Append(1, func([]int) error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}

func TestCollection_Replace(t *testing.T) {
	c := NewCollection[int](3)
	c.Replace([]int{1, 2, 3, 4, 5})
	assert.Equal(t, []int{3, 4, 5}, c.Snapshot())
}

func TestCollection_ConcurrentAppendsHoldCapacity(t *testing.T) {
	c := NewCollection[int](100)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = c.Append(g*1000+i, nil)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 100, c.Len())
}
