package service

import "uno_server/internal/game"

// Outbound event names.
const (
	EventConnected          = "connected"
	EventRoomCreated        = "roomCreated"
	EventWaitingForApproval = "waitingForApproval"
	EventNewJoinRequest     = "newJoinRequest"
	EventPendingUpdate      = "pendingUpdate"
	EventRoomJoined         = "roomJoined"
	EventPlayersUpdate      = "playersUpdate"
	EventGameUpdate         = "gameUpdate"
	EventPlayerSaidUno      = "playerSaidUno"
	EventPlayerLeft         = "playerLeft"
	EventSessionError       = "sessionError"
	EventError              = "error"
)

type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

type RoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type WaitingPayload struct {
	RoomCode string `json:"roomCode"`
}

type JoinRequestPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PendingPayload struct {
	RoomCode string        `json:"roomCode"`
	Pending  []game.Player `json:"pending"`
}

type PlayersPayload struct {
	RoomCode string        `json:"roomCode"`
	Players  []game.Player `json:"players"`
	Host     string        `json:"host"`
}

type SaidUnoPayload struct {
	Name string `json:"name"`
}

type PlayerLeftPayload struct {
	PlayerName string        `json:"playerName"`
	Players    []game.Player `json:"players"`
	Host       string        `json:"host"`
}

type SessionErrorPayload struct {
	RoomCode string `json:"roomCode"`
	Message  string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
