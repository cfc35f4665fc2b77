package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/roomsync/broadcast"
	"github.com/wfunc/roomsync/config"
	"github.com/wfunc/roomsync/games"
	"github.com/wfunc/roomsync/logger"
	"github.com/wfunc/roomsync/monitor"
	"github.com/wfunc/roomsync/network"
	"github.com/wfunc/roomsync/persistence"
	"github.com/wfunc/roomsync/reducer"
	"github.com/wfunc/roomsync/room"
	roomsyncrpc "github.com/wfunc/roomsync/rpc"
	"github.com/wfunc/roomsync/services"
	"github.com/wfunc/roomsync/session"
	"github.com/wfunc/roomsync/timer"
)

type GameServer struct {
	addr           string
	metricsAddr    string
	upgrader       websocket.Upgrader
	mux            *http.ServeMux
	registry       *reducer.Registry
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	recordService  *services.RecordService
	mon            *monitor.Monitor
	scheduler      *timer.Scheduler
	rpcServer      *roomsyncrpc.Server
	shutdownChan   chan struct{}
}

// NewGameServer wires the room core together. db and mon may be nil:
// no archive store and no metrics, everything else works the same.
func NewGameServer(cfg *config.Config, db persistence.Database, mon *monitor.Monitor) *GameServer {
	registry := games.NewRegistry()
	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		metricsAddr:    cfg.Server.MetricsAddress,
		registry:       registry,
		roomManager:    room.NewManager(registry, cfg.Room.IDLength),
		sessionManager: session.NewManager(),
		mon:            mon,
		scheduler:      timer.NewScheduler(),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // room ids are the only admission control
			},
		},
	}

	s.broadcaster = broadcast.NewRoomBroadcaster(s.roomManager)

	if db != nil {
		s.recordService = services.NewRecordService(db)
	}

	if mon != nil {
		s.scheduler.Schedule(0, 15*time.Second, func() {
			mon.SetActiveRooms(s.roomManager.Count())
		})
	}

	if cfg.Server.RPCAddress != "" {
		rpcServer, err := roomsyncrpc.NewServer(cfg.Server.RPCAddress)
		if err != nil {
			logger.Log.Fatalf("Failed to create RPC server: %v", err)
		}
		s.rpcServer = rpcServer
		rpc.Register(roomsyncrpc.NewAdminService(s.roomManager, s.sessionManager))
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	s.mux.HandleFunc("GET /api/rooms/{id}", s.handleWebSocket)

	return s
}

// Handler exposes the HTTP surface for tests.
func (s *GameServer) Handler() http.Handler {
	return s.mux
}

func (s *GameServer) Start() error {
	if s.rpcServer != nil {
		go s.rpcServer.Start()
	}
	if s.mon != nil {
		s.mon.StartServer(s.metricsAddr)
	}

	logger.Log.Infof("Room server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.scheduler.Stop()
	if s.rpcServer != nil {
		s.rpcServer.Stop()
	}
}

// handleCreateRoom allocates a fresh room and returns its id. No body
// required.
func (s *GameServer) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	newRoom, err := s.roomManager.CreateRoom(s.broadcaster)
	if err != nil {
		logger.Log.Errorf("Failed to create room: %v", err)
		http.Error(w, "failed to create room", http.StatusInternalServerError)
		return
	}

	logger.Log.Infof("Created room %s", newRoom.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"roomId": newRoom.ID})
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	playerID := r.URL.Query().Get("playerId")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(network.NewWSConnection(conn), roomID, playerID)
}

// handleConnection is the per-connection session handler: register the
// socket, push the current state, then pump inbound frames until the
// transport closes.
func (s *GameServer) handleConnection(conn network.Connection, roomID, playerID string) {
	sendError := func(message string) {
		if payload, err := network.EncodeError(message); err == nil {
			conn.Send(payload)
		}
	}

	// Connecting to a room that was never created is terminal: one
	// ERROR frame and the socket closes, with no registration.
	activeRoom, exists := s.roomManager.GetRoom(roomID)
	if !exists {
		sendError("Room does not exist")
		conn.Close()
		return
	}
	if playerID == "" {
		sendError("playerId is required")
		conn.Close()
		return
	}

	sess := session.NewSession(uuid.New().String(), playerID, conn)
	sess.RoomID = roomID
	s.sessionManager.Add(sess)
	if s.mon != nil {
		s.mon.IncOnlineSockets()
	}

	logger.Log.Infof("New connection from %s: room %s, player %s, session %s",
		conn.RemoteAddr(), roomID, playerID, sess.ID)

	activeRoom.Register(sess)

	defer func() {
		logger.Log.Infof("Connection closed: room %s, player %s, session %s", roomID, playerID, sess.ID)
		s.sessionManager.Remove(sess.ID)
		if s.mon != nil {
			s.mon.DecOnlineSockets()
		}
		// The room outlives every connection; only the socket
		// registration is undone here.
		if current, ok := s.roomManager.GetRoom(roomID); ok {
			current.Unregister(sess)
		}
		conn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			s.handleFrame(activeRoom, sess, data)
		}
	}
}

// handleFrame decodes one inbound text frame and routes it. This is
// also the reducer-fault boundary: a panic during reduction is logged
// and the connection carries on with the room at its last committed
// state.
func (s *GameServer) handleFrame(activeRoom *room.Room, sess *session.Session, data []byte) {
	defer func() {
		if fault := recover(); fault != nil {
			logger.Log.Errorf("Recovered reducer fault in room %s: %v", activeRoom.ID, fault)
		}
	}()

	action, err := network.DecodeAction(data)
	if err != nil {
		logger.Log.Warnf("Malformed frame from session %s: %v", sess.ID, err)
		s.sendError(sess, "Malformed message")
		return
	}

	// Heartbeats keep the transport alive and never reach the reducers.
	if action.Type == network.MsgTypeHeartbeat {
		sess.Touch()
		return
	}

	if !s.registry.Recognizes(action.Type) {
		s.sendError(sess, fmt.Sprintf("Unknown message type: %s", action.Type))
		return
	}

	// Identity comes from the connection, never from the payload.
	action.PlayerID = sess.PlayerID

	start := time.Now()
	prev, next := activeRoom.Dispatch(action)
	if s.mon != nil {
		s.mon.IncActionsDispatched()
		s.mon.ObserveDispatchLatency(time.Since(start))
	}

	// A NEW_GAME that displaced a running game sends the old game to
	// the archive.
	if s.recordService != nil && action.Type == reducer.ActionNewGame && next != prev && prev.Game != "" {
		s.recordService.ArchiveAsync(activeRoom.ID, prev)
	}
}

func (s *GameServer) sendError(sess *session.Session, message string) {
	payload, err := network.EncodeError(message)
	if err != nil {
		logger.Log.Errorf("Failed to encode error message: %v", err)
		return
	}
	if err := sess.Send(payload); err != nil {
		logger.Log.Debugf("Error send failed for session %s: %v", sess.ID, err)
	}
}
