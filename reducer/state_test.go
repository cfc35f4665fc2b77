package reducer

import (
	"encoding/json"
	"testing"
)

func TestState_MarshalJSON_FlattensGameFields(t *testing.T) {
	state := &State{
		Players: map[string]Player{"alice": {"name": "alice"}},
		Log:     []LogEntry{{Index: 0, Message: "hi", Action: Action{Type: "ADD_PLAYER"}}},
		Game:    "button",
		Fields:  map[string]any{"buttonCount": 2},
	}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if obj["game"] != "button" {
		t.Errorf("Expected game at top level, got %v", obj["game"])
	}
	if obj["buttonCount"] != float64(2) {
		t.Errorf("Game fields must flatten to the top level, got %v", obj["buttonCount"])
	}
	players, ok := obj["players"].(map[string]any)
	if !ok {
		t.Fatalf("Expected players object, got %T", obj["players"])
	}
	if players["alice"].(map[string]any)["name"] != "alice" {
		t.Error("Player record lost its name")
	}
	if _, ok := obj["log"].([]any); !ok {
		t.Errorf("Expected log array, got %T", obj["log"])
	}
}

func TestState_MarshalJSON_LobbyStateIsEmptyObject(t *testing.T) {
	data, err := json.Marshal(&State{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Fresh room state should serialize as {}, got %s", data)
	}
}

func TestState_Clone_Isolation(t *testing.T) {
	state := &State{
		Players: map[string]Player{"alice": {"name": "alice"}},
		Log:     []LogEntry{{Index: 0, Message: "hi"}},
		Fields:  map[string]any{"buttonCount": 1},
	}

	clone := state.Clone()
	clone.Players["bob"] = Player{"name": "bob"}
	clone.AppendLog("more", Action{Type: "X"})
	clone.SetField("buttonCount", 9)

	if len(state.Players) != 1 {
		t.Error("Clone shares the players map with its source")
	}
	if len(state.Log) != 1 {
		t.Error("Clone shares the log with its source")
	}
	if state.Fields["buttonCount"] != 1 {
		t.Error("Clone shares the fields map with its source")
	}
}

func TestAction_UnmarshalJSON(t *testing.T) {
	data := []byte(`{"type":"PLACE_BET","playerId":"spoofed","player":{"name":"alice"},"game":"button","amount":5}`)

	var action Action
	if err := json.Unmarshal(data, &action); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if action.Type != "PLACE_BET" {
		t.Errorf("Expected type PLACE_BET, got %q", action.Type)
	}
	if action.PlayerID != "spoofed" {
		t.Errorf("Expected playerId to parse, got %q", action.PlayerID)
	}
	if action.Player.Name() != "alice" {
		t.Errorf("Expected player name alice, got %q", action.Player.Name())
	}
	if action.Game != "button" {
		t.Errorf("Expected game button, got %q", action.Game)
	}
	if action.Fields["amount"] != float64(5) {
		t.Errorf("Extra payload fields must be captured, got %v", action.Fields)
	}
}

func TestAction_MarshalJSON_RoundTrip(t *testing.T) {
	action := Action{
		Type:     "PLACE_BET",
		PlayerID: "alice",
		Fields:   map[string]any{"amount": float64(5)},
	}

	data, err := json.Marshal(action)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Action
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.Type != action.Type || decoded.PlayerID != action.PlayerID {
		t.Errorf("Round trip lost core fields: %+v", decoded)
	}
	if decoded.Fields["amount"] != float64(5) {
		t.Errorf("Round trip lost extra fields: %v", decoded.Fields)
	}
}

func TestPlayer_Name(t *testing.T) {
	if (Player{"name": "alice"}).Name() != "alice" {
		t.Error("Name should read the name field")
	}
	if (Player{}).Name() != "" {
		t.Error("Missing name should read as empty")
	}
	if (Player{"name": 7}).Name() != "" {
		t.Error("Non-string name should read as empty")
	}
}
