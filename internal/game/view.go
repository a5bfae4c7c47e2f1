package game

// GameView is the state one player is allowed to see: the public table plus
// their own hand.
type GameView struct {
	RoomCode           string         `json:"roomCode"`
	Players            []Player       `json:"players"`
	Host               string         `json:"host"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	Direction          int            `json:"direction"`
	TopCard            *Card          `json:"topCard"`
	WildColor          *Color         `json:"wildColor"`
	Hand               []Card         `json:"hand"`
	PlayerHands        map[string]int `json:"playerHands"`
	DeckCount          int            `json:"deckCount"`
	Winner             string         `json:"winner,omitempty"`
}

// ViewFor builds the view sent to playerID.
func (s *Session) ViewFor(playerID string) GameView {
	v := GameView{
		RoomCode:           s.Code,
		Players:            append([]Player(nil), s.Players...),
		Host:               s.HostID,
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		Direction:          s.Direction,
		Hand:               append([]Card{}, s.Hands[playerID]...),
		PlayerHands:        s.HandCounts(),
		DeckCount:          len(s.Deck.DrawPile),
		Winner:             s.Winner,
	}
	if top, ok := s.Deck.Top(); ok {
		v.TopCard = &top
	}
	if s.WildColor != "" {
		wc := s.WildColor
		v.WildColor = &wc
	}
	return v
}

// HandCounts maps every player id to the size of their hand.
func (s *Session) HandCounts() map[string]int {
	counts := make(map[string]int, len(s.Hands))
	for id, hand := range s.Hands {
		counts[id] = len(hand)
	}
	return counts
}
