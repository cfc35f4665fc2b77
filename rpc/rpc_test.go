package rpc

import (
	"net"
	"testing"

	"github.com/wfunc/roomsync/games"
	"github.com/wfunc/roomsync/logger"
	"github.com/wfunc/roomsync/room"
	"github.com/wfunc/roomsync/session"
)

func TestMain(m *testing.M) {
	logger.InitNop()
	m.Run()
}

type MockConnection struct{}

func (c *MockConnection) Send(data []byte) error       { return nil }
func (c *MockConnection) ReadMessage() ([]byte, error) { return nil, nil }
func (c *MockConnection) Close() error                 { return nil }
func (c *MockConnection) RemoteAddr() net.Addr         { return nil }

func TestAdminService_GetStats(t *testing.T) {
	roomManager := room.NewManager(games.NewRegistry(), 6)
	sessionManager := session.NewManager()
	service := NewAdminService(roomManager, sessionManager)

	sessionManager.Add(session.NewSession("s1", "alice", &MockConnection{}))

	var reply StatsReply
	if err := service.GetStats(&StatsArgs{}, &reply); err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if reply.Rooms != 0 {
		t.Errorf("Expected 0 rooms, got %d", reply.Rooms)
	}
	if reply.Sessions != 1 {
		t.Errorf("Expected 1 session, got %d", reply.Sessions)
	}
}

func TestAdminService_GetPlayerSessions(t *testing.T) {
	roomManager := room.NewManager(games.NewRegistry(), 6)
	sessionManager := session.NewManager()
	service := NewAdminService(roomManager, sessionManager)

	first := session.NewSession("s1", "alice", &MockConnection{})
	first.RoomID = "ABCDEF"
	second := session.NewSession("s2", "alice", &MockConnection{})
	second.RoomID = "ABCDEF"
	sessionManager.Add(first)
	sessionManager.Add(second)
	sessionManager.Add(session.NewSession("s3", "bob", &MockConnection{}))

	var reply PlayerSessionsReply
	if err := service.GetPlayerSessions(&PlayerSessionsArgs{PlayerID: "alice"}, &reply); err != nil {
		t.Fatalf("GetPlayerSessions failed: %v", err)
	}
	if len(reply.Sessions) != 2 {
		t.Fatalf("Expected 2 sessions for alice, got %d", len(reply.Sessions))
	}
	for _, info := range reply.Sessions {
		if info.SessionID != "s1" && info.SessionID != "s2" {
			t.Errorf("Unexpected session id %q", info.SessionID)
		}
		if info.RoomID != "ABCDEF" {
			t.Errorf("Unexpected room id %q", info.RoomID)
		}
		if info.LastActive.IsZero() {
			t.Error("LastActive should be set")
		}
	}
}

func TestAdminService_GetRoomInfo_UnknownRoom(t *testing.T) {
	service := NewAdminService(room.NewManager(games.NewRegistry(), 6), session.NewManager())

	var reply RoomInfoReply
	if err := service.GetRoomInfo(&RoomInfoArgs{RoomID: "NOPE"}, &reply); err == nil {
		t.Error("Expected an error for an unknown room")
	}
}
