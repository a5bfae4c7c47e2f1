package service

import (
	"encoding/json"
	"testing"

	"uno_server/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCommand(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    Command
	}{
		{CmdCreateRoom, `{"playerName":"Ann"}`, CreateRoom{PlayerName: "Ann"}},
		{CmdJoinRoom, `{"roomCode":"ABC123","playerName":"Bob"}`, JoinRoom{RoomCode: "ABC123", PlayerName: "Bob"}},
		{CmdRespondToJoinRequest, `{"roomCode":"ABC123","playerId":"p1","accept":true}`, RespondToJoinRequest{RoomCode: "ABC123", PlayerID: "p1", Accept: true}},
		{CmdStartGame, `{"roomCode":"ABC123"}`, StartGame{RoomCode: "ABC123"}},
		{CmdPlayCard, `{"roomCode":"ABC123","cardIndex":3,"wildColor":"blue"}`, PlayCard{RoomCode: "ABC123", CardIndex: 3, WildColor: game.Blue}},
		{CmdDrawCard, `{"roomCode":"ABC123"}`, DrawCard{RoomCode: "ABC123"}},
		{CmdSayUno, `{"roomCode":"ABC123"}`, SayUno{RoomCode: "ABC123"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := DecodeCommand(tc.name, json.RawMessage(tc.payload))
			require.NoError(t, err)
			assert.Equal(t, tc.want, cmd)
			assert.Equal(t, tc.name, cmd.Name())
		})
	}
}

func TestDecodeCommandEmptyPayload(t *testing.T) {
	cmd, err := DecodeCommand(CmdStartGame, nil)
	require.NoError(t, err)
	assert.Equal(t, StartGame{}, cmd)
}

func TestDecodeCommandErrors(t *testing.T) {
	_, err := DecodeCommand("shuffleEverything", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)

	_, err = DecodeCommand(CmdPlayCard, json.RawMessage(`{"cardIndex":"three"}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownCommand)
}
