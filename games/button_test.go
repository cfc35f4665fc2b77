package games

import (
	"testing"

	"github.com/wfunc/roomsync/reducer"
)

// buttonGameState builds a room with alice mid-way into a button game,
// running everything through the real pipeline.
func buttonGameState(t *testing.T) (*reducer.Registry, *reducer.State) {
	t.Helper()
	registry := NewRegistry()
	state := registry.Apply(&reducer.State{}, reducer.Action{
		Type:     reducer.ActionAddPlayer,
		PlayerID: "alice",
		Player:   reducer.Player{"name": "alice"},
	})
	state = registry.Apply(state, reducer.Action{
		Type:     reducer.ActionNewGame,
		PlayerID: "alice",
		Game:     GameButton,
	})
	return registry, state
}

func TestButton_NewGameInitializesCounter(t *testing.T) {
	_, state := buttonGameState(t)

	if state.Game != GameButton {
		t.Fatalf("Expected active game %q, got %q", GameButton, state.Game)
	}
	count, ok := state.Fields[FieldButtonCount]
	if !ok {
		t.Fatal("NEW_GAME should initialize the counter")
	}
	if count != 0 {
		t.Errorf("Expected counter 0, got %v", count)
	}
}

func TestButton_PushButton(t *testing.T) {
	registry, state := buttonGameState(t)

	next := registry.Apply(state, reducer.Action{Type: ActionPushButton, PlayerID: "alice"})

	if next == state {
		t.Fatal("PUSH_BUTTON should produce a new state value")
	}
	if next.IntField(FieldButtonCount) != 1 {
		t.Errorf("Expected counter 1, got %v", next.Fields[FieldButtonCount])
	}
	last := next.Log[len(next.Log)-1]
	if last.Message != "alice pushed the button." {
		t.Errorf("Unexpected log message: %q", last.Message)
	}
	if last.Index != len(next.Log)-1 {
		t.Errorf("Log index broke: %d at position %d", last.Index, len(next.Log)-1)
	}
	if state.IntField(FieldButtonCount) != 0 {
		t.Error("PUSH_BUTTON mutated the previous state")
	}
}

func TestButton_PushButton_Repeated(t *testing.T) {
	registry, state := buttonGameState(t)

	for i := 0; i < 5; i++ {
		state = registry.Apply(state, reducer.Action{Type: ActionPushButton, PlayerID: "alice"})
	}

	if state.IntField(FieldButtonCount) != 5 {
		t.Errorf("Expected counter 5, got %v", state.Fields[FieldButtonCount])
	}
	for i, entry := range state.Log {
		if entry.Index != i {
			t.Errorf("log[%d].Index = %d", i, entry.Index)
		}
	}
}

func TestButton_PushButton_UnknownPlayer(t *testing.T) {
	registry, state := buttonGameState(t)

	next := registry.Apply(state, reducer.Action{Type: ActionPushButton, PlayerID: "ghost"})
	if next != state {
		t.Error("PUSH_BUTTON from an absent player should be an identity no-op")
	}
}

func TestButton_NewGameFromUnknownPlayerKeepsProgress(t *testing.T) {
	registry, state := buttonGameState(t)
	state = registry.Apply(state, reducer.Action{Type: ActionPushButton, PlayerID: "alice"})

	next := registry.Apply(state, reducer.Action{
		Type:     reducer.ActionNewGame,
		PlayerID: "ghost",
		Game:     GameButton,
	})

	if next != state {
		t.Fatal("NEW_GAME from an absent player should be an identity no-op")
	}
	if next.IntField(FieldButtonCount) != 1 {
		t.Errorf("Counter should survive a rejected NEW_GAME, got %v", next.Fields[FieldButtonCount])
	}
}

func TestButton_OtherActionsPassThrough(t *testing.T) {
	state := &reducer.State{
		Players: map[string]reducer.Player{"alice": {"name": "alice"}},
		Game:    GameButton,
		Fields:  map[string]any{FieldButtonCount: 3},
	}

	next := Button(state, reducer.Action{Type: "WIGGLE", PlayerID: "alice"})
	if next != state {
		t.Error("Unhandled action types must pass through untouched")
	}
}

func TestButton_NewGameResetsPreviousGame(t *testing.T) {
	registry, state := buttonGameState(t)

	state = registry.Apply(state, reducer.Action{Type: ActionPushButton, PlayerID: "alice"})
	state = registry.Apply(state, reducer.Action{
		Type:     reducer.ActionNewGame,
		PlayerID: "alice",
		Game:     GameButton,
	})

	if state.IntField(FieldButtonCount) != 0 {
		t.Errorf("A fresh game should reset the counter, got %v", state.Fields[FieldButtonCount])
	}
	if len(state.Players) != 1 {
		t.Error("Starting a new game must keep the roster")
	}
}
