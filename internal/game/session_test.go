package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartDealsHands(t *testing.T) {
	s := newLobby(t, 11, "A", "B", "C")
	_, err := s.Start(s.HostID)
	require.NoError(t, err)

	assert.True(t, s.Started)
	assert.Equal(t, 0, s.CurrentPlayerIndex)
	assert.Equal(t, 1, s.Direction)
	for _, p := range s.Players {
		assert.Len(t, s.Hands[p.ID], HandSize)
	}
	require.Len(t, s.Deck.DiscardPile, 1)
	assert.False(t, s.Deck.DiscardPile[0].IsWild())
	requireInvariants(t, s)
}

func TestStartValidation(t *testing.T) {
	solo := newLobby(t, 1, "A")
	_, err := solo.Start(solo.HostID)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	s := newLobby(t, 1, "A", "B")
	_, err = s.Start("conn-B")
	assert.ErrorIs(t, err, ErrNotHost)
	_, err = s.Start(s.HostID)
	require.NoError(t, err)
	_, err = s.Start(s.HostID)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestStartSetupErrorLeavesLobby(t *testing.T) {
	s := newLobby(t, 1, "A", "B")
	// only wild cards stay in the pile once both hands are dealt
	var wilds, others []Card
	for _, c := range s.Deck.DrawPile {
		if c.IsWild() {
			wilds = append(wilds, c)
		} else {
			others = append(others, c)
		}
	}
	s.Deck.DrawPile = append(wilds, others[:2*HandSize]...)
	s.Hands["parked"] = others[2*HandSize:]
	before := s.Clone()

	_, err := s.Start(s.HostID)
	require.ErrorIs(t, err, ErrSetup)
	assert.True(t, IsFatal(err))
	assert.False(t, s.Started)
	assert.Equal(t, before.Deck.DrawPile, s.Deck.DrawPile)
	assert.Equal(t, before.Hands, s.Hands)
	assert.Equal(t, DeckSize, s.TotalCards())
}

func TestPlayCardValidation(t *testing.T) {
	lobby := newLobby(t, 1, "A", "B")
	_, err := lobby.PlayCard("conn-A", 0, "")
	assert.ErrorIs(t, err, ErrNotStarted)

	s := newStarted(t, "A", "B")
	_, err = s.PlayCard("conn-B", 0, "")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = s.PlayCard("conn-A", 99, "")
	assert.ErrorIs(t, err, ErrInvalidCard)
	_, err = s.PlayCard("conn-A", -1, "")
	assert.ErrorIs(t, err, ErrInvalidCard)

	idx := give(t, s, "conn-A", Card{Wild, ValueWild})
	_, err = s.PlayCard("conn-A", idx, "")
	assert.ErrorIs(t, err, ErrInvalidWildColor)
	_, err = s.PlayCard("conn-A", idx, Wild)
	assert.ErrorIs(t, err, ErrInvalidWildColor)
	requireInvariants(t, s)
}

func TestPlayCardMovesCardToDiscard(t *testing.T) {
	s := newStarted(t, "A", "B")
	idx := give(t, s, "conn-A", Card{Blue, Numeral(5)})
	handBefore := len(s.Hands["conn-A"])

	c, err := s.PlayCard("conn-A", idx, Red)
	require.NoError(t, err)

	assert.Equal(t, Card{Blue, Numeral(5)}, c)
	top, _ := s.Deck.Top()
	assert.Equal(t, c, top)
	assert.Len(t, s.Hands["conn-A"], handBefore-1)
	assert.Empty(t, s.WildColor, "color only sticks to wild cards")
	assert.Equal(t, 1, s.CurrentPlayerIndex)
}

func TestWildColorClearedByNextCard(t *testing.T) {
	s := newStarted(t, "A", "B")
	idx := give(t, s, "conn-A", Card{Wild, ValueWild})
	_, err := s.PlayCard("conn-A", idx, Green)
	require.NoError(t, err)
	assert.Equal(t, Green, s.WildColor)

	idx = give(t, s, "conn-B", Card{Green, Numeral(3)})
	_, err = s.PlayCard("conn-B", idx, "")
	require.NoError(t, err)
	assert.Empty(t, s.WildColor)
	requireInvariants(t, s)
}

func TestLastCardWins(t *testing.T) {
	s := newStarted(t, "A", "B", "C", "D")
	d := "conn-D"
	s.CurrentPlayerIndex = 3
	last := Card{Red, Numeral(8)}
	give(t, s, d, last)
	// D keeps only the card about to be played
	s.Deck.ReturnToBottom(s.Hands[d][:len(s.Hands[d])-1])
	s.Hands[d] = []Card{last}

	_, err := s.PlayCard(d, 0, "")
	require.NoError(t, err)

	assert.Equal(t, "D", s.Winner)
	assert.Empty(t, s.Hands[d])
	assert.Equal(t, 0, s.CurrentPlayerIndex)
	view := s.ViewFor("conn-A")
	assert.Equal(t, "D", view.Winner)
	assert.Equal(t, 0, view.PlayerHands[d])
	assert.Equal(t, &last, view.TopCard)
	requireInvariants(t, s)

	_, err = s.DrawCard("conn-A")
	require.NoError(t, err)
	assert.Empty(t, s.Winner, "winner is reported once")
}

func TestDrawCardPassesTurn(t *testing.T) {
	s := newStarted(t, "A", "B", "C")
	before := len(s.Hands["conn-A"])

	_, err := s.DrawCard("conn-A")
	require.NoError(t, err)
	assert.Len(t, s.Hands["conn-A"], before+1)
	assert.Equal(t, 1, s.CurrentPlayerIndex)

	_, err = s.DrawCard("conn-A")
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestDrawCardReshufflesDiscards(t *testing.T) {
	s := newStarted(t, "A", "B")
	b := "conn-B"
	s.Hands[b] = append(s.Hands[b], s.Deck.DrawPile...)
	s.Deck.DrawPile = nil
	top := s.Deck.DiscardPile[0]
	n := len(s.Hands[b])
	under := append([]Card(nil), s.Hands[b][n-4:]...)
	s.Hands[b] = s.Hands[b][:n-4]
	s.Deck.DiscardPile = append(under, top)
	requireInvariants(t, s)

	_, err := s.DrawCard("conn-A")
	require.NoError(t, err)

	assert.Equal(t, []Card{top}, s.Deck.DiscardPile)
	assert.Len(t, s.Deck.DrawPile, 3)
	requireInvariants(t, s)
}

func TestDrawCardExhausted(t *testing.T) {
	s := newStarted(t, "A", "B")
	s.Hands["conn-B"] = append(s.Hands["conn-B"], s.Deck.DrawPile...)
	s.Deck.DrawPile = nil
	before := s.Clone()

	_, err := s.DrawCard("conn-A")
	require.ErrorIs(t, err, ErrDeckExhausted)
	assert.Equal(t, before.Hands, s.Hands)
	assert.Equal(t, before.CurrentPlayerIndex, s.CurrentPlayerIndex)
}

// Random play-through: whatever happens, the 108 cards stay accounted for.
func TestCardTotalInvariant(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		s := newLobby(t, seed, "A", "B", "C", "D")
		_, err := s.Start(s.HostID)
		require.NoError(t, err)
		rng := rand.New(rand.NewPCG(seed, 99))

		for step := 0; step < 400; step++ {
			current, ok := s.CurrentPlayer()
			require.True(t, ok)
			hand := s.Hands[current.ID]

			var err error
			if len(hand) > 0 && rng.IntN(10) < 7 {
				color := BaseColors[rng.IntN(len(BaseColors))]
				_, err = s.PlayCard(current.ID, rng.IntN(len(hand)), color)
			} else {
				_, err = s.DrawCard(current.ID)
			}
			if err != nil {
				require.True(t, IsFatal(err), "step %d: %v", step, err)
			}
			requireInvariants(t, s)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := newStarted(t, "A", "B")
	c := s.Clone()

	c.Players[0].Name = "changed"
	marker := Card{Color: "purple", Value: "x"}
	c.Hands["conn-A"][0] = marker
	c.Deck.DrawPile[0] = marker

	assert.Equal(t, "A", s.Players[0].Name)
	assert.NotEqual(t, marker, s.Hands["conn-A"][0])
	assert.NotEqual(t, marker, s.Deck.DrawPile[0])
	assert.Equal(t, DeckSize, s.TotalCards())
}
