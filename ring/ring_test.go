package ring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_AppendBelowCapacity(t *testing.T) {
	b := New[int](5)
	b.Append(1)
	b.Append(2)
	b.Append(3)

	assert.Equal(t, []int{1, 2, 3}, b.Elements())
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, 5, b.Cap())
	assert.False(t, b.IsFull())
	assert.Equal(t, uint64(3), b.TotalAppended())
}

func TestBuffer_OverwritesOldest(t *testing.T) {
	b := New[int](3)
	for _, v := range []int{1, 2, 3, 4, 5} {
		b.Append(v)
	}

	assert.Equal(t, []int{3, 4, 5}, b.Elements())
	assert.Equal(t, 3, b.Len())
	assert.True(t, b.IsFull())
	assert.Equal(t, uint64(5), b.TotalAppended())
}

func TestBuffer_KeepsLastCapValuesInOrder(t *testing.T) {
	const capacity = 7
	const n = 100
	b := New[int](capacity)
	for i := 0; i < n; i++ {
		b.Append(i)
	}

	want := make([]int, capacity)
	for i := range want {
		want[i] = n - capacity + i
	}
	assert.Equal(t, want, b.Elements())
	assert.Equal(t, uint64(n), b.TotalAppended())
}

func TestBuffer_FirstLast(t *testing.T) {
	b := New[string](2)

	_, ok := b.First()
	assert.False(t, ok)
	_, ok = b.Last()
	assert.False(t, ok)

	b.Append("a")
	b.Append("b")
	b.Append("c")

	first, ok := b.First()
	require.True(t, ok)
	assert.Equal(t, "b", first)

	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, "c", last)
}

func TestBuffer_PopFirst(t *testing.T) {
	b := New[int](3)
	b.Append(1)
	b.Append(2)

	v, ok := b.PopFirst()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, b.Len())

	v, ok = b.PopFirst()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = b.PopFirst()
	assert.False(t, ok)
}

func TestBuffer_Reset(t *testing.T) {
	b := New[int](3)
	b.Append(1)
	b.Append(2)
	b.Reset()

	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Elements())
	assert.Equal(t, uint64(2), b.TotalAppended())

	b.Append(9)
	assert.Equal(t, []int{9}, b.Elements())
}

func TestNew_PanicsOnNonPositiveCapacity(t *testing.T) {
	assert.Panics(t, func() { New[int](0) })
	assert.Panics(t, func() { New[int](-1) })
}

func TestBuffer_ConcurrentAppend(t *testing.T) {
	b := New[int](16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				b.Append(i)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, b.Len())
	assert.Equal(t, uint64(800), b.TotalAppended())
}
