// games/registry.go
package games

import (
	"github.com/wfunc/roomsync/reducer"
)

// NewRegistry returns the reducer registry with every built-in game
// registered. New games are added here, not by touching the core.
func NewRegistry() *reducer.Registry {
	r := reducer.NewRegistry()
	r.Register(GameButton, Button, ActionPushButton)
	return r
}
