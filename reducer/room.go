// reducer/room.go
package reducer

import (
	"fmt"
)

// ReduceRoom applies the room-lifecycle actions (joining, leaving,
// starting a new game). Pure and total: an action that fails its
// preconditions returns the state pointer unchanged, and any action type
// it does not handle passes through for the game reducer to interpret.
func ReduceRoom(state *State, action Action) *State {
	switch action.Type {
	case ActionAddPlayer:
		if action.Player.Name() == "" {
			return state
		}
		if _, ok := state.Players[action.PlayerID]; ok {
			return state
		}
		next := state.Clone()
		if next.Players == nil {
			next.Players = make(map[string]Player, 1)
		}
		next.Players[action.PlayerID] = action.Player
		next.AppendLog(fmt.Sprintf("🚪 %s entered the room.", action.Player.Name()), action)
		return next

	case ActionRemovePlayer:
		player, ok := state.Players[action.PlayerID]
		if !ok {
			return state
		}
		next := state.Clone()
		next.AppendLog(fmt.Sprintf("❌ %s has left the room.", player.Name()), action)
		delete(next.Players, action.PlayerID)
		return next

	case ActionNewGame:
		// Only someone present in the room can start a game.
		player, ok := state.Players[action.PlayerID]
		if !ok {
			return state
		}
		next := state.Clone()
		// Everything except players and the log belongs to the previous
		// game and is dropped.
		next.Game = action.Game
		next.Fields = nil
		next.AppendLog(fmt.Sprintf("%s started a new game of \"%s.\"", player.Name(), action.Game), action)
		return next
	}

	return state
}
