// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/roomsync/models"
)

// Database is the archive store for finished games. Room state itself
// lives only in memory; this interface exists so game history survives
// for offline inspection, never to restore rooms across restarts.
type Database interface {
	SaveGameRecord(record *models.GameRecord) error
	RecentGameRecords(roomID string, limit int) ([]models.GameRecord, error)
	Close() error
}

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
