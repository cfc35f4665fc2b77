package rpc

import (
	"fmt"
	"net"
	"net/rpc"
	"time"

	"github.com/wfunc/roomsync/logger"
	"github.com/wfunc/roomsync/room"
	"github.com/wfunc/roomsync/session"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered by the
// caller before Start.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes read-only operational queries over net/rpc.
type AdminService struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewAdminService(roomManager *room.Manager, sessionManager *session.Manager) *AdminService {
	return &AdminService{
		roomManager:    roomManager,
		sessionManager: sessionManager,
	}
}

type StatsArgs struct{}

type StatsReply struct {
	Rooms    int
	Sessions int
	RoomIDs  []string
}

func (as *AdminService) GetStats(args *StatsArgs, reply *StatsReply) error {
	reply.Rooms = as.roomManager.Count()
	reply.Sessions = as.sessionManager.Count()
	reply.RoomIDs = as.roomManager.RoomIDs()
	return nil
}

type RoomInfoArgs struct {
	RoomID string
}

type RoomInfoReply struct {
	Game             string
	PlayerIDs        []string
	ConnectedPlayers []string
	Sockets          int
	LogLength        int
}

type PlayerSessionsArgs struct {
	PlayerID string
}

type SessionInfo struct {
	SessionID  string
	RoomID     string
	LastActive time.Time
}

type PlayerSessionsReply struct {
	Sessions []SessionInfo
}

// GetPlayerSessions lists a player's live sockets, one entry per tab.
func (as *AdminService) GetPlayerSessions(args *PlayerSessionsArgs, reply *PlayerSessionsReply) error {
	for _, sess := range as.sessionManager.GetByPlayerID(args.PlayerID) {
		reply.Sessions = append(reply.Sessions, SessionInfo{
			SessionID:  sess.GetID(),
			RoomID:     sess.RoomID,
			LastActive: sess.LastActive(),
		})
	}
	return nil
}

func (as *AdminService) GetRoomInfo(args *RoomInfoArgs, reply *RoomInfoReply) error {
	r, exists := as.roomManager.GetRoom(args.RoomID)
	if !exists {
		return fmt.Errorf("room %s not found", args.RoomID)
	}

	state := r.State()
	reply.Game = state.Game
	for id := range state.Players {
		reply.PlayerIDs = append(reply.PlayerIDs, id)
	}
	reply.ConnectedPlayers = r.ConnectedPlayerIDs()
	reply.Sockets = r.SocketCount()
	reply.LogLength = len(state.Log)
	return nil
}
