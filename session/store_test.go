package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	ID   string
	Text string
}

func newTestStore(maxSize int) *Store[string, response] {
	return New[string, response](maxSize, func(r response) string { return r.ID })
}

func TestStore_AppendAndHistory(t *testing.T) {
	s := newTestStore(10)
	s.Append("s1", response{ID: "r1", Text: "one"})
	s.Append("s1", response{ID: "r2", Text: "two"})

	history := s.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, "r1", history[0].ID)
	assert.Equal(t, "r2", history[1].ID)
}

func TestStore_CapEvictsOldest(t *testing.T) {
	s := newTestStore(2)
	s.Append("s", response{ID: "r1"})
	s.Append("s", response{ID: "r2"})
	s.Append("s", response{ID: "r3"})

	history := s.History("s")
	require.Len(t, history, 2)
	assert.Equal(t, "r2", history[0].ID)
	assert.Equal(t, "r3", history[1].ID)
	assert.Equal(t, 2, s.Count("s"))
}

func TestStore_KeepsLastMaxSizeInOrder(t *testing.T) {
	const maxSize = 5
	const n = 42
	s := newTestStore(maxSize)
	for i := 0; i < n; i++ {
		s.Append("k", response{ID: fmt.Sprintf("r%d", i)})
	}

	history := s.History("k")
	require.Len(t, history, maxSize)
	for i, r := range history {
		assert.Equal(t, fmt.Sprintf("r%d", n-maxSize+i), r.ID)
	}
}

func TestStore_HistoryLimit(t *testing.T) {
	s := newTestStore(10)
	for i := 0; i < 5; i++ {
		s.Append("k", response{ID: fmt.Sprintf("r%d", i)})
	}

	limited := s.History("k", 2)
	require.Len(t, limited, 2)
	assert.Equal(t, "r3", limited[0].ID)
	assert.Equal(t, "r4", limited[1].ID)

	assert.Len(t, s.History("k", 99), 5)
}

func TestStore_Latest(t *testing.T) {
	s := newTestStore(10)

	_, ok := s.Latest("missing")
	assert.False(t, ok)

	s.Append("k", response{ID: "r1"})
	s.Append("k", response{ID: "r2"})

	latest, ok := s.Latest("k")
	require.True(t, ok)
	assert.Equal(t, "r2", latest.ID)
}

func TestStore_GetByID(t *testing.T) {
	s := newTestStore(10)
	s.Append("k", response{ID: "r1", Text: "old"})
	s.Append("k", response{ID: "r2", Text: "new"})

	got, ok := s.Get("k", "r1")
	require.True(t, ok)
	assert.Equal(t, "old", got.Text)

	_, ok = s.Get("k", "nope")
	assert.False(t, ok)

	_, ok = s.Get("other", "r1")
	assert.False(t, ok)
}

func TestStore_NilIdentity(t *testing.T) {
	s := New[string, response](10, nil)
	s.Append("k", response{ID: "r1"})

	_, ok := s.Get("k", "r1")
	assert.False(t, ok)
}

func TestStore_ClearRemovesKey(t *testing.T) {
	s := newTestStore(10)
	s.Append("a", response{ID: "r1"})
	s.Append("b", response{ID: "r2"})

	s.Clear("a")

	assert.Equal(t, 0, s.Count("a"))
	assert.NotContains(t, s.Keys(), "a")
	assert.Contains(t, s.Keys(), "b")
}

func TestStore_ClearAll(t *testing.T) {
	s := newTestStore(10)
	s.Append("a", response{ID: "r1"})
	s.Append("b", response{ID: "r2"})

	s.ClearAll()

	assert.Empty(t, s.Keys())
	assert.Equal(t, 0, s.TotalCount())
}

func TestStore_TotalCount(t *testing.T) {
	s := newTestStore(10)
	s.Append("a", response{ID: "r1"})
	s.Append("a", response{ID: "r2"})
	s.Append("b", response{ID: "r3"})

	assert.Equal(t, 3, s.TotalCount())
}

func TestStore_DefaultMaxSize(t *testing.T) {
	s := New[string, int](0, nil)
	assert.Equal(t, DefaultMaxSize, s.MaxSize())
	for i := 0; i < DefaultMaxSize+20; i++ {
		s.Append("k", i)
	}
	assert.Equal(t, DefaultMaxSize, s.Count("k"))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := newTestStore(50)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", g%2)
			for i := 0; i < 100; i++ {
				s.Append(key, response{ID: fmt.Sprintf("g%d-%d", g, i)})
				s.History(key)
				s.Count(key)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Count("k0"))
	assert.Equal(t, 50, s.Count("k1"))
}
