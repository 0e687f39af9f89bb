package app

import (
	"sync"
	"testing"

	"github.com/dkeye/available/internal/core"
	"github.com/dkeye/available/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateIsAtomic(t *testing.T) {
	m := NewRoomManager()
	const n = 64
	got := make([]core.RoomService, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = m.GetOrCreate("fresh")
		}()
	}
	wg.Wait()
	for _, r := range got {
		assert.Same(t, got[0], r)
	}
	assert.Len(t, m.List(), 1)
}

func TestGetDoesNotCreate(t *testing.T) {
	m := NewRoomManager()
	_, ok := m.Get("main")
	assert.False(t, ok)

	created := m.GetOrCreate("main")
	r, ok := m.Get("main")
	require.True(t, ok)
	assert.Same(t, created, r)
}

func TestListIsSorted(t *testing.T) {
	m := NewRoomManager()
	m.GetOrCreate("zeta")
	m.GetOrCreate("alpha")
	m.GetOrCreate("Main")
	names := []domain.RoomName{}
	for _, info := range m.List() {
		names = append(names, info.Name)
	}
	assert.Equal(t, []domain.RoomName{"Main", "alpha", "zeta"}, names)
}
