// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/roomsync/logger"
	"github.com/wfunc/roomsync/room"
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

// Broadcaster fans a serialized payload out to a whole room.
type Broadcaster interface {
	BroadcastToRoom(roomID string, data []byte) error
}

// RoomBroadcaster resolves rooms through the room manager and delivers
// to every socket they hold.
type RoomBroadcaster struct {
	roomManager *room.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager: roomManager,
	}
}

// BroadcastToRoom sends the same payload to every socket in the room,
// across all player ids. Delivery is best effort per socket: one dead
// connection never blocks the rest of the fanout.
func (b *RoomBroadcaster) BroadcastToRoom(roomID string, data []byte) error {
	r, exists := b.roomManager.GetRoom(roomID)
	if !exists {
		return ErrRoomNotFound
	}

	for _, s := range r.Sessions() {
		if err := s.Send(data); err != nil {
			logger.Log.Debugf("Send to session %s failed: %v", s.ID, err)
			continue
		}
	}

	return nil
}
