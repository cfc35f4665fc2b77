// reducer/registry.go
package reducer

// Func is the reducer contract shared by the room reducer and every
// game reducer: map (state, action) to the next state, returning the
// identical pointer when nothing changed.
type Func func(state *State, action Action) *State

// Registry maps game identifiers to their reducers and tracks which
// action types any registered reducer handles. It is populated once at
// process start and read-only afterwards, so lookups need no locking.
type Registry struct {
	games   map[string]Func
	actions map[string]struct{}
}

func NewRegistry() *Registry {
	r := &Registry{
		games:   make(map[string]Func),
		actions: make(map[string]struct{}),
	}
	for _, t := range []string{ActionAddPlayer, ActionRemovePlayer, ActionNewGame} {
		r.actions[t] = struct{}{}
	}
	return r
}

// Register adds a game reducer under its identifier, declaring the
// action types it handles beyond the room-lifecycle ones.
func (r *Registry) Register(game string, fn Func, actionTypes ...string) {
	r.games[game] = fn
	for _, t := range actionTypes {
		r.actions[t] = struct{}{}
	}
}

func (r *Registry) Lookup(game string) (Func, bool) {
	fn, ok := r.games[game]
	return fn, ok
}

// Recognizes reports whether any reducer in the pipeline, active or
// not, handles the given action type. Unrecognized types are bounced
// back to the sender instead of being dispatched.
func (r *Registry) Recognizes(actionType string) bool {
	_, ok := r.actions[actionType]
	return ok
}

// Apply runs the full pipeline: the room reducer first, then the game
// reducer selected by the resulting state's game identifier. NEW_GAME is
// deliberately seen twice: the room reducer switches games and clears
// game-owned fields, and the newly selected game reducer then performs
// its own first-play initialization.
func (r *Registry) Apply(state *State, action Action) *State {
	next := ReduceRoom(state, action)
	if action.Type == ActionNewGame && next == state {
		// The room reducer rejected the switch, so the active game
		// reducer must not see the NEW_GAME either.
		return state
	}
	if fn, ok := r.games[next.Game]; ok {
		next = fn(next, action)
	}
	return next
}
