// models/models.go
package models

import (
	"time"

	"github.com/wfunc/roomsync/reducer"
)

// GameRecord is the archived form of a finished game: the roster and
// the log as they stood when a NEW_GAME replaced it. Records are write
// only from the server's point of view; nothing is ever loaded back
// into live room state.
type GameRecord struct {
	RoomID  string             `json:"room_id"`
	Game    string             `json:"game"`
	Players []PlayerInfo       `json:"players"`
	Log     []reducer.LogEntry `json:"log"`
	EndedAt time.Time          `json:"ended_at"`
}

// PlayerInfo is a player as captured in a game record.
type PlayerInfo struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}
