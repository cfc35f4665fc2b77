// reducer/state.go
package reducer

import (
	"encoding/json"
)

// Room-lifecycle action types handled by the generic room reducer.
const (
	ActionAddPlayer    = "ADD_PLAYER"
	ActionRemovePlayer = "REMOVE_PLAYER"
	ActionNewGame      = "NEW_GAME"
)

// Player is the per-player record stored in room state. Its shape comes
// straight from the client's ADD_PLAYER payload ({"name": ...} plus any
// game-specific fields), so it stays an open map.
type Player map[string]any

func (p Player) Name() string {
	name, _ := p["name"].(string)
	return name
}

// LogEntry is an observational record of an accepted action. Entries are
// append-only and never consulted by reducers to decide future transitions.
type LogEntry struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
	Action  Action `json:"action"`
}

// Action is a client-originated, typed intent to transition room state.
// PlayerID is injected by the session handler from the connection's
// identity and never trusted from the payload.
type Action struct {
	Type     string
	PlayerID string
	Player   Player
	Game     string
	// Fields carries any game-specific payload fields.
	Fields map[string]any
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Type, _ = raw["type"].(string)
	delete(raw, "type")
	a.PlayerID, _ = raw["playerId"].(string)
	delete(raw, "playerId")
	if p, ok := raw["player"].(map[string]any); ok {
		a.Player = Player(p)
	}
	delete(raw, "player")
	a.Game, _ = raw["game"].(string)
	delete(raw, "game")
	if len(raw) > 0 {
		a.Fields = raw
	} else {
		a.Fields = nil
	}
	return nil
}

func (a Action) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(a.Fields)+4)
	for k, v := range a.Fields {
		obj[k] = v
	}
	obj["type"] = a.Type
	if a.PlayerID != "" {
		obj["playerId"] = a.PlayerID
	}
	if a.Player != nil {
		obj["player"] = a.Player
	}
	if a.Game != "" {
		obj["game"] = a.Game
	}
	return json.Marshal(obj)
}

// State is an immutable snapshot of a room. Reducers never mutate a
// State they were given; an accepted action produces a fresh value and a
// rejected or unrecognized one returns the identical pointer. That
// pointer identity is what gates broadcasts, so it is load-bearing.
type State struct {
	Players map[string]Player
	Log     []LogEntry
	// Game names the active game reducer; empty means the room is in
	// its lobby state.
	Game string
	// Fields is owned exclusively by the active game reducer and is
	// dropped whenever a new game starts.
	Fields map[string]any
}

// Clone returns a copy safe to modify without touching the receiver.
// Player values and log entries are shared; both are treated as
// immutable once stored.
func (s *State) Clone() *State {
	next := &State{Game: s.Game}
	if s.Players != nil {
		next.Players = make(map[string]Player, len(s.Players))
		for id, p := range s.Players {
			next.Players[id] = p
		}
	}
	if len(s.Log) > 0 {
		next.Log = append([]LogEntry(nil), s.Log...)
	}
	if s.Fields != nil {
		next.Fields = make(map[string]any, len(s.Fields))
		for k, v := range s.Fields {
			next.Fields[k] = v
		}
	}
	return next
}

// AppendLog appends an entry whose index continues the sequence. Only
// call this on a State the caller owns (a fresh Clone).
func (s *State) AppendLog(message string, action Action) {
	s.Log = append(s.Log, LogEntry{
		Index:   len(s.Log),
		Message: message,
		Action:  action,
	})
}

// SetField writes a game-specific field, allocating the map on first use.
func (s *State) SetField(key string, value any) {
	if s.Fields == nil {
		s.Fields = make(map[string]any, 1)
	}
	s.Fields[key] = value
}

// IntField reads a game-specific field as an int, zero if absent.
func (s *State) IntField(key string) int {
	n, _ := s.Fields[key].(int)
	return n
}

// MarshalJSON flattens game-specific fields into the top-level object so
// the wire shape matches what game clients expect: {"players": ..,
// "log": .., "game": .., "buttonCount": ..}.
func (s *State) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(s.Fields)+3)
	for k, v := range s.Fields {
		obj[k] = v
	}
	if s.Players != nil {
		obj["players"] = s.Players
	}
	if s.Log != nil {
		obj["log"] = s.Log
	}
	if s.Game != "" {
		obj["game"] = s.Game
	}
	return json.Marshal(obj)
}
