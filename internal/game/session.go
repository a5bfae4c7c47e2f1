package game

import (
	"math/rand/v2"
	"slices"
	"time"
)

// Player is a seat at the table. ID is the connection id of the player.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session is the authoritative state of one room. It is not safe for
// concurrent use; the Registry serializes access per room.
type Session struct {
	Code               string            `json:"code"`
	HostID             string            `json:"hostId"`
	Players            []Player          `json:"players"`
	Pending            []Player          `json:"pendingPlayers"`
	Started            bool              `json:"started"`
	Deck               *Deck             `json:"deck"`
	CurrentPlayerIndex int               `json:"currentPlayerIndex"`
	Direction          int               `json:"direction"`
	Hands              map[string][]Card `json:"playerHands"`
	WildColor          Color             `json:"wildColor,omitempty"`
	Winner             string            `json:"winner,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// NewSession opens a lobby hosted by host with a freshly shuffled deck.
func NewSession(code string, host Player, rng *rand.Rand, now time.Time) *Session {
	return &Session{
		Code:      code,
		HostID:    host.ID,
		Players:   []Player{host},
		Deck:      NewDeck(rng),
		Direction: 1,
		Hands:     make(map[string][]Card),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func indexOf(players []Player, id string) int {
	return slices.IndexFunc(players, func(p Player) bool { return p.ID == id })
}

// IndexOf returns the seat of the player with the given id, or -1.
func (s *Session) IndexOf(id string) int {
	return indexOf(s.Players, id)
}

// Player looks up a seated player by id.
func (s *Session) Player(id string) (Player, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return Player{}, false
	}
	return s.Players[i], true
}

func (s *Session) IsHost(id string) bool {
	return s.HostID == id
}

// HasConnection reports whether id is seated or waiting for admission.
func (s *Session) HasConnection(id string) bool {
	return s.IndexOf(id) >= 0 || indexOf(s.Pending, id) >= 0
}

func (s *Session) nameTaken(name string) bool {
	has := func(p Player) bool { return p.Name == name }
	return slices.ContainsFunc(s.Players, has) || slices.ContainsFunc(s.Pending, has)
}

func (s *Session) nextIndex() int {
	return NextIndex(s.CurrentPlayerIndex, s.Direction, len(s.Players))
}

// CurrentPlayer returns the player whose turn it is.
func (s *Session) CurrentPlayer() (Player, bool) {
	if !s.Started || s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.CurrentPlayerIndex], true
}

func (s *Session) checkTurn(playerID string) error {
	if !s.Started {
		return ErrNotStarted
	}
	current, ok := s.CurrentPlayer()
	if !ok || current.ID != playerID {
		return ErrNotYourTurn
	}
	return nil
}

// Start deals a hand to every player and opens the discard pile. Only the
// host may start, and only with at least two players. Join requests still
// waiting are dropped and returned so the caller can turn them away. On
// ErrSetup or ErrDeckExhausted the session is left as it was.
func (s *Session) Start(callerID string) ([]Player, error) {
	if !s.IsHost(callerID) {
		return nil, ErrNotHost
	}
	if s.Started {
		return nil, ErrAlreadyStarted
	}
	if len(s.Players) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	backup := s.Clone()
	if err := s.deal(); err != nil {
		*s = *backup
		return nil, err
	}
	dropped := s.Pending
	s.Pending = nil
	return dropped, nil
}

func (s *Session) deal() error {
	s.Hands = make(map[string][]Card, len(s.Players))
	for _, p := range s.Players {
		hand := make([]Card, 0, HandSize)
		for i := 0; i < HandSize; i++ {
			c, err := s.Deck.Draw()
			if err != nil {
				return err
			}
			hand = append(hand, c)
		}
		s.Hands[p.ID] = hand
	}
	if _, err := s.Deck.DrawInitialDiscard(); err != nil {
		return err
	}
	s.Started = true
	s.CurrentPlayerIndex = 0
	s.Direction = 1
	s.WildColor = ""
	s.Winner = ""
	return nil
}

// PlayCard plays the card at index from the current player's hand. A wild
// card needs one of the four base colors; the color is ignored for other
// cards. Legality against the top card is left to the clients.
func (s *Session) PlayCard(playerID string, index int, wildColor Color) (Card, error) {
	if err := s.checkTurn(playerID); err != nil {
		return Card{}, err
	}
	hand := s.Hands[playerID]
	if index < 0 || index >= len(hand) {
		return Card{}, ErrInvalidCard
	}
	card := hand[index]
	if card.IsWild() && !wildColor.IsBase() {
		return Card{}, ErrInvalidWildColor
	}

	backup := s.Clone()
	s.Winner = ""
	s.Hands[playerID] = slices.Delete(hand, index, index+1)
	s.Deck.Discard(card)
	if card.IsWild() {
		s.WildColor = wildColor
	} else {
		s.WildColor = ""
	}

	if err := ApplyEffect(s, card); err != nil {
		*s = *backup
		return Card{}, err
	}

	if len(s.Hands[playerID]) == 0 {
		p, _ := s.Player(playerID)
		s.Winner = p.Name
	}
	return card, nil
}

// DrawCard gives the current player one card and passes the turn.
func (s *Session) DrawCard(playerID string) (Card, error) {
	if err := s.checkTurn(playerID); err != nil {
		return Card{}, err
	}
	backup := s.Clone()
	c, err := s.Deck.Draw()
	if err != nil {
		*s = *backup
		return Card{}, err
	}
	s.Winner = ""
	s.Hands[playerID] = append(s.Hands[playerID], c)
	s.CurrentPlayerIndex = s.nextIndex()
	return c, nil
}

// TotalCards counts every card the session owns: both piles and all hands.
func (s *Session) TotalCards() int {
	total := s.Deck.Count()
	for _, hand := range s.Hands {
		total += len(hand)
	}
	return total
}

// Clone returns a deep copy sharing only the random source.
func (s *Session) Clone() *Session {
	c := *s
	c.Players = slices.Clone(s.Players)
	c.Pending = slices.Clone(s.Pending)
	c.Deck = s.Deck.clone()
	c.Hands = make(map[string][]Card, len(s.Hands))
	for id, hand := range s.Hands {
		c.Hands[id] = slices.Clone(hand)
	}
	return &c
}
