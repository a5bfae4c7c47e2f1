package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateAndAcquire(t *testing.T) {
	reg := NewRegistry(WithSeed(1), WithClock(func() time.Time { return time.Unix(42, 0) }))

	rm, err := reg.Create(playerNamed("Host"))
	require.NoError(t, err)
	s := rm.Session()
	code := s.Code
	rm.Release()

	assert.Len(t, code, roomCodeLength)
	assert.Equal(t, "conn-Host", s.HostID)
	assert.Equal(t, time.Unix(42, 0), s.CreatedAt)
	assert.Equal(t, 1, reg.Len())

	got, err := reg.Acquire(code)
	require.NoError(t, err)
	assert.Same(t, s, got.Session())
	got.Release()

	_, err = reg.Acquire("NOPE00")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRegistryCreateRequiresName(t *testing.T) {
	reg := NewRegistry(WithSeed(1))
	_, err := reg.Create(Player{ID: "c1", Name: " "})
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Zero(t, reg.Len())
}

func TestRegistryCodeCollisions(t *testing.T) {
	codes := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	i := 0
	reg := NewRegistry(WithCodeGenerator(func() string {
		c := codes[i%len(codes)]
		i++
		return c
	}))

	first, err := reg.Create(playerNamed("A"))
	require.NoError(t, err)
	first.Release()
	second, err := reg.Create(playerNamed("B"))
	require.NoError(t, err)
	second.Release()

	assert.Equal(t, []string{"AAAAAA", "BBBBBB"}, reg.Codes())

	stuck := NewRegistry(WithCodeGenerator(func() string { return "AAAAAA" }))
	rm, err := stuck.Create(playerNamed("A"))
	require.NoError(t, err)
	rm.Release()
	_, err = stuck.Create(playerNamed("B"))
	assert.ErrorIs(t, err, ErrNoRoomCode)
}

func TestRegistryDestroy(t *testing.T) {
	reg := NewRegistry(WithSeed(2))
	rm, err := reg.Create(playerNamed("A"))
	require.NoError(t, err)
	code := rm.Session().Code
	reg.Destroy(rm)
	rm.Release()

	_, err = reg.Acquire(code)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Zero(t, reg.Len())
}

func TestRegistryRestore(t *testing.T) {
	src := newStarted(t, "A", "B")
	restored := src.Clone()
	restored.Deck.rng = nil

	reg := NewRegistry(WithSeed(3))
	n := reg.Restore(map[string]*Session{
		"SAVED1": restored,
		"EMPTY1": {Code: "EMPTY1"},
	})
	assert.Equal(t, 1, n)

	rm, err := reg.Acquire("SAVED1")
	require.NoError(t, err)
	defer rm.Release()
	s := rm.Session()
	assert.Equal(t, "SAVED1", s.Code)
	assert.NotNil(t, s.Deck.rng)

	_, err = s.DrawCard("conn-A")
	require.NoError(t, err)
	requireInvariants(t, s)
}

// Concurrent draws against one room never break the turn order or lose
// cards.
func TestRegistrySerializesRoomActions(t *testing.T) {
	reg := NewRegistry(WithSeed(4))
	rm, err := reg.Create(playerNamed("A"))
	require.NoError(t, err)
	s := rm.Session()
	code := s.Code
	require.NoError(t, s.RequestJoin(playerNamed("B")))
	_, err = s.ResolveJoin(s.HostID, "conn-B", true)
	require.NoError(t, err)
	_, err = s.Start(s.HostID)
	require.NoError(t, err)
	rm.Release()

	var wg sync.WaitGroup
	for _, id := range []string{"conn-A", "conn-B"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				room, err := reg.Acquire(code)
				if err != nil {
					t.Error(err)
					return
				}
				_, _ = room.Session().DrawCard(id)
				room.Release()
			}
		}(id)
	}
	wg.Wait()

	room, err := reg.Acquire(code)
	require.NoError(t, err)
	defer room.Release()
	requireInvariants(t, room.Session())
}

func TestRegistryRoomsOfFollowsMembership(t *testing.T) {
	codes := []string{"AAAAAA", "BBBBBB"}
	i := 0
	reg := NewRegistry(WithSeed(2), WithCodeGenerator(func() string {
		c := codes[i]
		i++
		return c
	}))

	first, err := reg.Create(playerNamed("A"))
	require.NoError(t, err)
	require.NoError(t, first.Session().RequestJoin(playerNamed("B")))
	first.Release()

	second, err := reg.Create(playerNamed("B"))
	require.NoError(t, err)
	second.Release()

	assert.Equal(t, []string{"AAAAAA"}, reg.RoomsOf("conn-A"))
	assert.Equal(t, []string{"AAAAAA", "BBBBBB"}, reg.RoomsOf("conn-B"))
	assert.Empty(t, reg.RoomsOf("conn-nobody"))

	rm, err := reg.Acquire("AAAAAA")
	require.NoError(t, err)
	_, err = rm.Session().ResolveJoin("conn-A", "conn-B", false)
	require.NoError(t, err)
	rm.Release()
	assert.Equal(t, []string{"BBBBBB"}, reg.RoomsOf("conn-B"))

	rm, err = reg.Acquire("AAAAAA")
	require.NoError(t, err)
	reg.Destroy(rm)
	rm.Release()
	assert.Empty(t, reg.RoomsOf("conn-A"))

	restored := NewRegistry(WithSeed(3))
	s := NewSession("CCCCCC", playerNamed("C"), nil, time.Unix(0, 0))
	s.Pending = append(s.Pending, playerNamed("D"))
	require.Equal(t, 1, restored.Restore(map[string]*Session{"CCCCCC": s}))
	assert.Equal(t, []string{"CCCCCC"}, restored.RoomsOf("conn-D"))
}
