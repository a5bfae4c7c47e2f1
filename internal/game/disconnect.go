package game

import "slices"

// DisconnectOutcome describes what RemoveConnection changed.
type DisconnectOutcome struct {
	// Removed is the seated player that left, when WasPlayer is set.
	Removed   Player
	WasPlayer bool
	// PendingChanged is set when a join request was withdrawn.
	PendingChanged bool
	HostChanged    bool
	// Destroyed is set when the last player left; the session must be
	// dropped from the registry.
	Destroyed bool
}

// RemoveConnection takes connection id out of the room. The turn pointer
// keeps following the same remaining player. When the player to move is
// the one leaving, the turn goes to whoever now sits in that seat. The
// leaver's hand goes back under the draw pile.
func (s *Session) RemoveConnection(id string) DisconnectOutcome {
	var out DisconnectOutcome

	if i := indexOf(s.Pending, id); i >= 0 {
		s.Pending = slices.Delete(s.Pending, i, i+1)
		out.PendingChanged = true
	}

	idx := s.IndexOf(id)
	if idx < 0 {
		return out
	}
	out.Removed = s.Players[idx]
	out.WasPlayer = true

	var currentID string
	if current, ok := s.CurrentPlayer(); ok && current.ID != id {
		currentID = current.ID
	}

	s.Players = slices.Delete(s.Players, idx, idx+1)
	if len(s.Players) == 0 {
		out.Destroyed = true
		return out
	}

	if s.HostID == id {
		s.HostID = s.Players[0].ID
		out.HostChanged = true
	}

	if s.Started {
		s.Deck.ReturnToBottom(s.Hands[id])
		delete(s.Hands, id)

		if currentID != "" {
			s.CurrentPlayerIndex = s.IndexOf(currentID)
		} else if idx < len(s.Players) {
			s.CurrentPlayerIndex = idx
		} else {
			s.CurrentPlayerIndex = 0
		}
	}
	return out
}
