// services/record_service.go
package services

import (
	"sort"
	"time"

	"github.com/wfunc/roomsync/logger"
	"github.com/wfunc/roomsync/models"
	"github.com/wfunc/roomsync/persistence"
	"github.com/wfunc/roomsync/reducer"
)

// RecordService archives finished games. When a NEW_GAME replaces a
// running game, the state that was displaced becomes a GameRecord.
type RecordService struct {
	db persistence.Database
}

func NewRecordService(db persistence.Database) *RecordService {
	return &RecordService{db: db}
}

// ArchiveFinishedGame stores the displaced state. The state value is
// immutable, so it is safe to read here long after the room moved on.
func (s *RecordService) ArchiveFinishedGame(roomID string, state *reducer.State) error {
	players := make([]models.PlayerInfo, 0, len(state.Players))
	for id, p := range state.Players {
		players = append(players, models.PlayerInfo{PlayerID: id, Name: p.Name()})
	}
	sort.Slice(players, func(i, j int) bool { return players[i].PlayerID < players[j].PlayerID })

	record := &models.GameRecord{
		RoomID:  roomID,
		Game:    state.Game,
		Players: players,
		Log:     state.Log,
		EndedAt: time.Now(),
	}
	return s.db.SaveGameRecord(record)
}

// ArchiveAsync runs ArchiveFinishedGame off the dispatch path; archive
// failures are logged, never surfaced to the room.
func (s *RecordService) ArchiveAsync(roomID string, state *reducer.State) {
	go func() {
		if err := s.ArchiveFinishedGame(roomID, state); err != nil {
			logger.Log.Errorf("Failed to archive game for room %s: %v", roomID, err)
		}
	}()
}

func (s *RecordService) RecentRecords(roomID string, limit int) ([]models.GameRecord, error) {
	return s.db.RecentGameRecords(roomID, limit)
}
