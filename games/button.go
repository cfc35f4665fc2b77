// games/button.go
package games

import (
	"fmt"

	"github.com/wfunc/roomsync/reducer"
)

const (
	GameButton = "button"

	ActionPushButton = "PUSH_BUTTON"

	FieldButtonCount = "buttonCount"
)

// Button is the button game reducer: a shared counter anyone in the room
// can increment.
func Button(state *reducer.State, action reducer.Action) *reducer.State {
	switch action.Type {
	case reducer.ActionNewGame:
		next := state.Clone()
		next.SetField(FieldButtonCount, 0)
		return next

	case ActionPushButton:
		player, ok := state.Players[action.PlayerID]
		if !ok {
			return state
		}
		next := state.Clone()
		next.SetField(FieldButtonCount, state.IntField(FieldButtonCount)+1)
		next.AppendLog(fmt.Sprintf("%s pushed the button.", player.Name()), action)
		return next
	}

	return state
}
