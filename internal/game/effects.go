package game

// ApplyEffect resolves the card just played on s and moves the turn
// pointer. Forced draws go to the player who would play next, who is then
// skipped. A deck failure during a forced draw is returned as is; the
// caller owns rollback.
func ApplyEffect(s *Session, c Card) error {
	skipNext := false

	switch c.Value {
	case ValueSkip:
		skipNext = true
	case ValueReverse:
		s.Direction = -s.Direction
		if len(s.Players) == 2 {
			skipNext = true
		}
	case ValueDrawTwo, ValueWildDrawFour:
		target := s.Players[s.nextIndex()]
		for i := 0; i < drawPenalty[c.Value]; i++ {
			card, err := s.Deck.Draw()
			if err != nil {
				return err
			}
			s.Hands[target.ID] = append(s.Hands[target.ID], card)
		}
		skipNext = true
	}

	s.CurrentPlayerIndex = s.nextIndex()
	if skipNext {
		s.CurrentPlayerIndex = s.nextIndex()
	}
	return nil
}
