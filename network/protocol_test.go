package network

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/wfunc/roomsync/reducer"
)

func TestEncodeGameState(t *testing.T) {
	state := &reducer.State{
		Players: map[string]reducer.Player{"alice": {"name": "alice"}},
		Game:    "button",
		Fields:  map[string]any{"buttonCount": 1},
	}

	data, err := EncodeGameState(state)
	if err != nil {
		t.Fatalf("EncodeGameState failed: %v", err)
	}

	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Payload is not JSON: %v", err)
	}
	if msg["type"] != MsgTypeGameState {
		t.Errorf("Expected type %s, got %v", MsgTypeGameState, msg["type"])
	}
	gameState, ok := msg["gameState"].(map[string]any)
	if !ok {
		t.Fatalf("Expected gameState object, got %T", msg["gameState"])
	}
	if gameState["buttonCount"] != float64(1) {
		t.Errorf("Game fields should flatten into gameState, got %v", gameState)
	}
}

func TestEncodeGameState_FreshRoom(t *testing.T) {
	data, err := EncodeGameState(&reducer.State{})
	if err != nil {
		t.Fatalf("EncodeGameState failed: %v", err)
	}
	if !strings.Contains(string(data), `"gameState":{}`) {
		t.Errorf("Fresh room should ship an empty state object, got %s", data)
	}
}

func TestEncodeConnectedPlayers_NeverNull(t *testing.T) {
	data, err := EncodeConnectedPlayers(nil)
	if err != nil {
		t.Fatalf("EncodeConnectedPlayers failed: %v", err)
	}
	if !strings.Contains(string(data), `"playerIds":[]`) {
		t.Errorf("Empty presence must be a JSON array, got %s", data)
	}
}

func TestEncodeError(t *testing.T) {
	data, err := EncodeError("Room does not exist")
	if err != nil {
		t.Fatalf("EncodeError failed: %v", err)
	}

	var msg ErrorMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Payload is not JSON: %v", err)
	}
	if msg.Type != MsgTypeError || msg.Message != "Room does not exist" {
		t.Errorf("Unexpected error payload: %+v", msg)
	}
}

func TestDecodeAction(t *testing.T) {
	action, err := DecodeAction([]byte(`{"type":"ADD_PLAYER","player":{"name":"alice"}}`))
	if err != nil {
		t.Fatalf("DecodeAction failed: %v", err)
	}
	if action.Type != reducer.ActionAddPlayer {
		t.Errorf("Expected ADD_PLAYER, got %q", action.Type)
	}
	if action.Player.Name() != "alice" {
		t.Errorf("Expected player name alice, got %q", action.Player.Name())
	}
}

func TestDecodeAction_Malformed(t *testing.T) {
	for _, frame := range []string{"not json", `{"type":`, `[1,2,3]`} {
		if _, err := DecodeAction([]byte(frame)); err == nil {
			t.Errorf("Expected decode error for %q", frame)
		}
	}
}
