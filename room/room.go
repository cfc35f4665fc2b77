// room/room.go
package room

import (
	"sort"
	"sync"
	"time"

	"github.com/wfunc/roomsync/logger"
	"github.com/wfunc/roomsync/network"
	"github.com/wfunc/roomsync/reducer"
	"github.com/wfunc/roomsync/session"
)

// Room is one isolated play session: a reducer-managed state value plus
// the set of live sockets per player id.
type Room struct {
	ID        string
	CreatedAt time.Time

	registry    *reducer.Registry
	broadcaster Broadcaster

	// dispatchMutex is the room's single serialization point. State
	// transitions and the broadcasts they trigger run under it, so
	// every socket observes GAME_STATE and CONNECTED_PLAYERS frames in
	// true send order. One mutex per room, never a global one.
	dispatchMutex sync.Mutex
	state         *reducer.State

	// socketMutex guards the socket sets on their own so a fanout can
	// snapshot them while dispatchMutex is held.
	socketMutex sync.RWMutex
	sockets     map[string]map[*session.Session]struct{}
}

// NewRoom creates a room in its lobby state with no connections.
func NewRoom(id string, registry *reducer.Registry, broadcaster Broadcaster) *Room {
	return &Room{
		ID:          id,
		CreatedAt:   time.Now(),
		registry:    registry,
		broadcaster: broadcaster,
		state:       &reducer.State{},
		sockets:     make(map[string]map[*session.Session]struct{}),
	}
}

// State returns the current snapshot. The value is immutable; callers
// may hold it as long as they like.
func (r *Room) State() *reducer.State {
	r.dispatchMutex.Lock()
	defer r.dispatchMutex.Unlock()
	return r.state
}

// Dispatch runs the reducer pipeline against the current state and
// atomically replaces it. A changed state (by pointer identity, the
// reducers' no-op contract) is broadcast to every socket in the room
// before the next action for this room can be applied. Returns the
// state before and after the action.
func (r *Room) Dispatch(action reducer.Action) (prev, next *reducer.State) {
	r.dispatchMutex.Lock()
	defer r.dispatchMutex.Unlock()

	prev = r.state
	next = r.registry.Apply(prev, action)
	if next == prev {
		return prev, next
	}
	r.state = next

	payload, err := network.EncodeGameState(next)
	if err != nil {
		logger.Log.Errorf("Failed to encode state for room %s: %v", r.ID, err)
		return prev, next
	}
	if err := r.broadcaster.BroadcastToRoom(r.ID, payload); err != nil {
		logger.Log.Warnf("Broadcast failed for room %s: %v", r.ID, err)
	}
	return prev, next
}

// Register adds a socket under its player id, announces the new
// presence set to the whole room, and sends the current state to the
// connecting socket only.
func (r *Room) Register(sess *session.Session) {
	r.dispatchMutex.Lock()
	defer r.dispatchMutex.Unlock()

	r.socketMutex.Lock()
	set, ok := r.sockets[sess.PlayerID]
	if !ok {
		set = make(map[*session.Session]struct{}, 1)
		r.sockets[sess.PlayerID] = set
	}
	set[sess] = struct{}{}
	r.socketMutex.Unlock()

	r.broadcastPresence()

	payload, err := network.EncodeGameState(r.state)
	if err != nil {
		logger.Log.Errorf("Failed to encode state for room %s: %v", r.ID, err)
		return
	}
	if err := sess.Send(payload); err != nil {
		logger.Log.Debugf("Initial state send failed for session %s: %v", sess.ID, err)
	}
}

// Unregister drops a socket and re-announces presence. The player stays
// in room state until an explicit REMOVE_PLAYER; zero sockets just
// means "disconnected".
func (r *Room) Unregister(sess *session.Session) {
	r.dispatchMutex.Lock()
	defer r.dispatchMutex.Unlock()

	r.socketMutex.Lock()
	if set, ok := r.sockets[sess.PlayerID]; ok {
		delete(set, sess)
		if len(set) == 0 {
			delete(r.sockets, sess.PlayerID)
		}
	}
	r.socketMutex.Unlock()

	r.broadcastPresence()
}

func (r *Room) broadcastPresence() {
	payload, err := network.EncodeConnectedPlayers(r.ConnectedPlayerIDs())
	if err != nil {
		logger.Log.Errorf("Failed to encode presence for room %s: %v", r.ID, err)
		return
	}
	if err := r.broadcaster.BroadcastToRoom(r.ID, payload); err != nil {
		logger.Log.Warnf("Presence broadcast failed for room %s: %v", r.ID, err)
	}
}

// ConnectedPlayerIDs returns the player ids holding at least one live
// socket, sorted for a stable wire shape.
func (r *Room) ConnectedPlayerIDs() []string {
	r.socketMutex.RLock()
	defer r.socketMutex.RUnlock()

	ids := make([]string, 0, len(r.sockets))
	for id, set := range r.sockets {
		if len(set) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Sessions returns a snapshot of every socket in the room (thread-safe).
func (r *Room) Sessions() []*session.Session {
	r.socketMutex.RLock()
	defer r.socketMutex.RUnlock()

	sessions := make([]*session.Session, 0, len(r.sockets))
	for _, set := range r.sockets {
		for s := range set {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

func (r *Room) SocketCount() int {
	r.socketMutex.RLock()
	defer r.socketMutex.RUnlock()

	count := 0
	for _, set := range r.sockets {
		count += len(set)
	}
	return count
}

// --- Room manager ---

// Manager owns the process-wide room table. Rooms are created on demand
// and live until the process exits; there is deliberately no removal.
type Manager struct {
	rooms    map[string]*Room
	mutex    sync.RWMutex
	registry *reducer.Registry
	idLength int
}

func NewManager(registry *reducer.Registry, idLength int) *Manager {
	return &Manager{
		rooms:    make(map[string]*Room),
		registry: registry,
		idLength: idLength,
	}
}

// CreateRoom allocates a fresh unique id, initializes empty state and an
// empty connection set, and stores the room.
func (m *Manager) CreateRoom(broadcaster Broadcaster) (*Room, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var id string
	for {
		var err error
		id, err = generateID(m.idLength)
		if err != nil {
			return nil, err
		}
		if _, taken := m.rooms[id]; !taken {
			break
		}
	}

	room := NewRoom(id, m.registry, broadcaster)
	m.rooms[id] = room
	return room, nil
}

func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	return room, exists
}

// Dispatch applies an action to the named room and returns the new
// state, or false if the room does not exist.
func (m *Manager) Dispatch(roomID string, action reducer.Action) (*reducer.State, bool) {
	room, exists := m.GetRoom(roomID)
	if !exists {
		return nil, false
	}
	_, next := room.Dispatch(action)
	return next, true
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

func (m *Manager) RoomIDs() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
