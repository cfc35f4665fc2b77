package network

import (
	"encoding/json"
	"fmt"

	"github.com/wfunc/roomsync/reducer"
)

// Wire message types. Client action types (ADD_PLAYER and friends) live
// with the reducers; these cover the transport keepalive and the
// server-to-client envelopes.
const (
	MsgTypeHeartbeat        = "HEARTBEAT"
	MsgTypeGameState        = "GAME_STATE"
	MsgTypeConnectedPlayers = "CONNECTED_PLAYERS"
	MsgTypeError            = "ERROR"
)

type GameStateMessage struct {
	Type      string         `json:"type"`
	GameState *reducer.State `json:"gameState"`
}

type ConnectedPlayersMessage struct {
	Type      string   `json:"type"`
	PlayerIDs []string `json:"playerIds"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func EncodeGameState(state *reducer.State) ([]byte, error) {
	return json.Marshal(GameStateMessage{Type: MsgTypeGameState, GameState: state})
}

func EncodeConnectedPlayers(playerIDs []string) ([]byte, error) {
	if playerIDs == nil {
		// Always a JSON array on the wire, never null.
		playerIDs = []string{}
	}
	return json.Marshal(ConnectedPlayersMessage{Type: MsgTypeConnectedPlayers, PlayerIDs: playerIDs})
}

func EncodeError(message string) ([]byte, error) {
	return json.Marshal(ErrorMessage{Type: MsgTypeError, Message: message})
}

// DecodeAction parses an inbound text frame into an Action. The caller
// must overwrite PlayerID with the connection's identity before
// dispatching.
func DecodeAction(data []byte) (reducer.Action, error) {
	var action reducer.Action
	if err := json.Unmarshal(data, &action); err != nil {
		return reducer.Action{}, fmt.Errorf("malformed action frame: %w", err)
	}
	return action, nil
}
