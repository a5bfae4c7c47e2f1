package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"uno_server/internal/game"
)

// Inbound command names.
const (
	CmdCreateRoom           = "createRoom"
	CmdJoinRoom             = "joinRoom"
	CmdRespondToJoinRequest = "respondToJoinRequest"
	CmdStartGame            = "startGame"
	CmdPlayCard             = "playCard"
	CmdDrawCard             = "drawCard"
	CmdSayUno               = "sayUno"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is one of the client actions below.
type Command interface {
	Name() string
}

type CreateRoom struct {
	PlayerName string `json:"playerName"`
}

type JoinRoom struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type RespondToJoinRequest struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	Accept   bool   `json:"accept"`
}

type StartGame struct {
	RoomCode string `json:"roomCode"`
}

type PlayCard struct {
	RoomCode  string     `json:"roomCode"`
	CardIndex int        `json:"cardIndex"`
	WildColor game.Color `json:"wildColor,omitempty"`
}

type DrawCard struct {
	RoomCode string `json:"roomCode"`
}

type SayUno struct {
	RoomCode string `json:"roomCode"`
}

func (CreateRoom) Name() string           { return CmdCreateRoom }
func (JoinRoom) Name() string             { return CmdJoinRoom }
func (RespondToJoinRequest) Name() string { return CmdRespondToJoinRequest }
func (StartGame) Name() string            { return CmdStartGame }
func (PlayCard) Name() string             { return CmdPlayCard }
func (DrawCard) Name() string             { return CmdDrawCard }
func (SayUno) Name() string               { return CmdSayUno }

// DecodeCommand turns a frame type and its raw payload into a Command.
func DecodeCommand(name string, payload json.RawMessage) (Command, error) {
	switch name {
	case CmdCreateRoom:
		return decode[CreateRoom](name, payload)
	case CmdJoinRoom:
		return decode[JoinRoom](name, payload)
	case CmdRespondToJoinRequest:
		return decode[RespondToJoinRequest](name, payload)
	case CmdStartGame:
		return decode[StartGame](name, payload)
	case CmdPlayCard:
		return decode[PlayCard](name, payload)
	case CmdDrawCard:
		return decode[DrawCard](name, payload)
	case CmdSayUno:
		return decode[SayUno](name, payload)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

func decode[T Command](name string, payload json.RawMessage) (Command, error) {
	var cmd T
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	}
	return cmd, nil
}
