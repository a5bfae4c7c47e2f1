package game

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func playerNamed(name string) Player {
	return Player{ID: "conn-" + name, Name: name}
}

// newLobby returns an unstarted session seated in the order of names; the
// first name hosts.
func newLobby(t *testing.T, seed uint64, names ...string) *Session {
	t.Helper()
	require.NotEmpty(t, names)
	rng := rand.New(rand.NewPCG(seed, seed+1))
	s := NewSession("ROOM42", playerNamed(names[0]), rng, time.Unix(1700000000, 0))
	for _, n := range names[1:] {
		s.Players = append(s.Players, playerNamed(n))
	}
	return s
}

func newStarted(t *testing.T, names ...string) *Session {
	t.Helper()
	s := newLobby(t, 7, names...)
	_, err := s.Start(s.HostID)
	require.NoError(t, err)
	return s
}

// give moves one copy of c into the hand of playerID, taking it from the
// draw pile or from another hand so the card total never changes. It
// returns the index of the card in the receiving hand.
func give(t *testing.T, s *Session, playerID string, c Card) int {
	t.Helper()
	if i := slices.Index(s.Deck.DrawPile, c); i >= 0 {
		s.Deck.DrawPile = slices.Delete(s.Deck.DrawPile, i, i+1)
	} else {
		taken := false
		for id, hand := range s.Hands {
			if id == playerID {
				continue
			}
			if i := slices.Index(hand, c); i >= 0 {
				s.Hands[id] = slices.Delete(hand, i, i+1)
				taken = true
				break
			}
		}
		require.True(t, taken, "no spare %v to hand out", c)
	}
	s.Hands[playerID] = append(s.Hands[playerID], c)
	return len(s.Hands[playerID]) - 1
}

func requireInvariants(t *testing.T, s *Session) {
	t.Helper()
	require.Equal(t, DeckSize, s.TotalCards())
	if !s.Started {
		return
	}
	require.GreaterOrEqual(t, s.CurrentPlayerIndex, 0)
	require.Less(t, s.CurrentPlayerIndex, len(s.Players))
	top, ok := s.Deck.Top()
	require.True(t, ok)
	require.Equal(t, top.IsWild(), s.WildColor != "", "wild color must track a wild top card")
	for _, p := range s.Players {
		_, ok := s.Hands[p.ID]
		require.True(t, ok, "player %s has no hand", p.Name)
	}
}
