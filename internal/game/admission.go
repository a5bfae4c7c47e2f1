package game

import (
	"slices"
	"strings"
)

// RequestJoin queues p for the host's approval. Requests are refused once
// the game has started or when the name is already used in the room.
func (s *Session) RequestJoin(p Player) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if s.Started {
		return ErrAlreadyStarted
	}
	if s.HasConnection(p.ID) {
		return ErrAlreadyInRoom
	}
	if s.nameTaken(p.Name) {
		return ErrNameTaken
	}
	s.Pending = append(s.Pending, p)
	return nil
}

// ResolveJoin accepts or rejects the pending request of playerID on behalf
// of callerID, who must be the host. An accepted player takes the last
// seat. The resolved player is returned either way.
func (s *Session) ResolveJoin(callerID, playerID string, accept bool) (Player, error) {
	if !s.IsHost(callerID) {
		return Player{}, ErrNotHost
	}
	if s.Started {
		return Player{}, ErrAlreadyStarted
	}
	i := indexOf(s.Pending, playerID)
	if i < 0 {
		return Player{}, ErrJoinRequestNotFound
	}
	p := s.Pending[i]
	s.Pending = slices.Delete(s.Pending, i, i+1)
	if accept {
		s.Players = append(s.Players, p)
	}
	return p, nil
}
